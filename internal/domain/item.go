package domain

import "fmt"

// ItemType discriminates the entity kinds that share the catalog's identifier space.
type ItemType int

// Item types. Values are persisted in the items table and must not be renumbered.
const (
	ItemTypeUnknown ItemType = iota
	ItemTypeArtist
	ItemTypeAlbum
	ItemTypeSong
	ItemTypeFolder
	ItemTypeGenre
	ItemTypeVideo
	ItemTypeArt
)

var itemTypeNames = map[ItemType]string{
	ItemTypeUnknown: "unknown",
	ItemTypeArtist:  "artist",
	ItemTypeAlbum:   "album",
	ItemTypeSong:    "song",
	ItemTypeFolder:  "folder",
	ItemTypeGenre:   "genre",
	ItemTypeVideo:   "video",
	ItemTypeArt:     "art",
}

// String returns the lowercase name of the item type.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("item_type(%d)", int(t))
}

// Valid reports whether t is a known, allocatable item type.
func (t ItemType) Valid() bool {
	return t > ItemTypeUnknown && t <= ItemTypeArt
}

// ParseItemType converts a name produced by String back into an ItemType.
// Unrecognized names return ItemTypeUnknown.
func ParseItemType(name string) ItemType {
	for t, n := range itemTypeNames {
		if n == name {
			return t
		}
	}
	return ItemTypeUnknown
}

// Item is implemented by every catalog entity that owns an identifier
// drawn from the global item sequence.
type Item interface {
	ItemID() int64
	ItemType() ItemType
}
