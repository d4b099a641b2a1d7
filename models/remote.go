// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

package models

// MenuItemUpload is the normalized field set transmitted to the remote
// origin for create and update calls. Required-but-empty fields are filled
// with defaults before an upload is built, so transmission never fails on
// missing optional data.
type MenuItemUpload struct {
	LocalID     string        `json:"local_id"`
	ServerID    string        `json:"server_id,omitempty"`
	OwnerID     string        `json:"owner_id"`
	CategoryID  string        `json:"category_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       string        `json:"price"`
	OfferPrice  string        `json:"offer_price,omitempty"`
	SpiceLevel  string        `json:"spice_level"`
	Dietary     string        `json:"dietary"`
	Status      string        `json:"status"`
	Images      []ImageUpload `json:"-"`
}

// ImageUpload points at a local image file to attach to a create or update
// request as a multipart file part.
type ImageUpload struct {
	Ref      string
	Position int
}

// APIResponse is the structured envelope every remote endpoint responds
// with. Success is authoritative: a 200 with Success=false is still a
// rejected call.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateItemResponse is the envelope returned by the create endpoint; Data
// carries the newly assigned remote identifier.
type CreateItemResponse struct {
	APIResponse
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CategoriesResponse is the envelope returned by the category listing
// endpoint, consumed by the read-through category cache.
type CategoriesResponse struct {
	APIResponse
	Data []CategoryCacheEntry `json:"data"`
}
