// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

// Package adapter provides the transport layer for communicating with the
// remote origin API.
//
// The primary abstraction is [RemoteMenuAPI], which decouples the sync
// orchestrator from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPMenuAdapter]) built on resty.
//
// The origin responds with a structured envelope ({success, message, data})
// rather than relying on transport-level status codes alone; mapAPIError and
// the envelope check together map failures to the sentinel values in
// errors.go so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/takhirov/menukeeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteMenuAPI defines transport-agnostic communication with the remote
// origin. Implementations own serialisation, session header management and
// the mapping of transport errors to sentinels.
type RemoteMenuAPI interface {
	// SetToken stores the bearer token attached to all subsequent requests.
	// The application shell calls it after the user session is established.
	SetToken(token string)

	// Token returns the currently stored bearer token, or an empty string.
	Token() string

	// SessionValid reports whether a token is present and not expired. The
	// token is inspected locally (unverified parse); the origin remains the
	// authority and may still reject a call with ErrUnauthorized.
	SessionValid() bool

	// CreateItem transmits a new item (with zero or more image attachments)
	// and returns the remote identifier assigned by the origin.
	CreateItem(ctx context.Context, upload models.MenuItemUpload) (string, error)

	// UpdateItem replaces the remote record identified by upload.ServerID.
	UpdateItem(ctx context.Context, upload models.MenuItemUpload) error

	// DeleteItem removes the remote record identified by serverID.
	DeleteItem(ctx context.Context, ownerID, serverID string) error

	// FetchCategories returns the origin's current category listing for the
	// read-through category cache.
	FetchCategories(ctx context.Context, ownerID string) ([]models.CategoryCacheEntry, error)
}
