package domain

// Genre is a named taxonomy entry shared by songs and videos.
// Names are unique and matched case-sensitively.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemID implements Item.
func (g *Genre) ItemID() int64 { return g.ID }

// ItemType implements Item.
func (g *Genre) ItemType() ItemType { return ItemTypeGenre }
