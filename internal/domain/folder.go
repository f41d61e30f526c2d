package domain

// Folder is a directory in the media library.
// ParentID is zero for library roots.
type Folder struct {
	ID       int64  `json:"id"`
	ParentID int64  `json:"parent_id,omitzero"`
	Name     string `json:"name"`
	Path     string `json:"-"` // absolute filesystem path, never exposed to clients
}

// ItemID implements Item.
func (f *Folder) ItemID() int64 { return f.ID }

// ItemType implements Item.
func (f *Folder) ItemType() ItemType { return ItemTypeFolder }

// IsRoot returns true if the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == 0
}
