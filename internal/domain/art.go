package domain

// Art is a content-addressed image shared by any number of items.
// ContentHash is the hex SHA-256 of the raw image bytes.
type Art struct {
	ID          int64  `json:"id"`
	ContentHash string `json:"content_hash"`
	MIMEType    string `json:"mime_type,omitzero"`
	Size        int64  `json:"size"`
	BlurHash    string `json:"blur_hash,omitzero"`
}

// ItemID implements Item.
func (a *Art) ItemID() int64 { return a.ID }

// ItemType implements Item.
func (a *Art) ItemType() ItemType { return ItemTypeArt }

// ArtItem links an item to the art it displays.
// An item has at most one ArtItem; an art id may appear in many.
type ArtItem struct {
	ArtID  int64 `json:"art_id"`
	ItemID int64 `json:"item_id"`
}
