// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the origin rejects the session token.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrRemoteRejected is returned when the origin's response envelope
	// carries success=false: the call was delivered but refused.
	ErrRemoteRejected = errors.New("remote origin rejected the request")
)
