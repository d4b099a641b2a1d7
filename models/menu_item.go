package models

import "time"

// MenuItem is a single catalog entry tracked by the local store. Every item
// carries synchronization metadata alongside its domain fields: LocalID is the
// device-local identity assigned at creation and never changes; ServerID is
// assigned by the remote origin after the first successful create and stays
// nil until then.
type MenuItem struct {
	LocalID     string          `json:"local_id"`
	ServerID    *string         `json:"server_id,omitempty"`
	OwnerID     string          `json:"owner_id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       string          `json:"price"`
	OfferPrice  string          `json:"offer_price,omitempty"`
	SpiceLevel  string          `json:"spice_level,omitempty"`
	Dietary     string          `json:"dietary,omitempty"`
	Status      string          `json:"status"`
	PendingSync bool            `json:"pending_sync"`
	Deleted     bool            `json:"deleted"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Images      []MenuItemImage `json:"images,omitempty"`
}

// MenuItemImage is an image attachment owned by exactly one MenuItem. Images
// are removed together with their owning item.
type MenuItemImage struct {
	ImageID  string `json:"image_id"`
	ItemID   string `json:"item_id"`
	Ref      string `json:"ref"`
	Position int    `json:"position"`
}

// SyncAction is the reconciliation operation the orchestrator must perform
// next for an item. It is always derived from the item's current state and
// never set directly.
type SyncAction string

const (
	SyncActionNone   SyncAction = ""
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

// SyncAction derives the pending reconciliation operation from the item's
// ServerID/PendingSync/Deleted combination. A clean item yields
// SyncActionNone.
func (m MenuItem) SyncAction() SyncAction {
	switch {
	case !m.PendingSync:
		return SyncActionNone
	case m.ServerID == nil:
		return SyncActionCreate
	case m.Deleted:
		return SyncActionDelete
	default:
		return SyncActionUpdate
	}
}

// Synced reports whether the remote origin has ever acknowledged this item.
func (m MenuItem) Synced() bool {
	return m.ServerID != nil
}

// NewMenuItem carries the caller-supplied fields for creating an item. All
// sync metadata is assigned by the store.
type NewMenuItem struct {
	OwnerID     string
	CategoryID  string
	Name        string
	Description string
	Price       string
	OfferPrice  string
	SpiceLevel  string
	Dietary     string
	Status      string
	Images      []NewMenuItemImage
}

// NewMenuItemImage is an image attachment supplied at creation or via a
// patch. Ref points at the locally stored image file.
type NewMenuItemImage struct {
	Ref      string
	Position int
}

// MenuItemPatch is a partial update. Nil fields retain the prior value;
// Images, when non-nil, replaces the full attachment list.
type MenuItemPatch struct {
	CategoryID  *string
	Name        *string
	Description *string
	Price       *string
	OfferPrice  *string
	SpiceLevel  *string
	Dietary     *string
	Status      *string
	Images      []NewMenuItemImage
}
