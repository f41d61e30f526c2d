package domain

// Artist is a performer referenced by songs.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemID implements Item.
func (a *Artist) ItemID() int64 { return a.ID }

// ItemType implements Item.
func (a *Artist) ItemType() ItemType { return ItemTypeArtist }

// Album groups songs; ArtistID is zero for compilations or unknown artists.
type Album struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ArtistID int64  `json:"artist_id,omitzero"`
}

// ItemID implements Item.
func (a *Album) ItemID() int64 { return a.ID }

// ItemType implements Item.
func (a *Album) ItemType() ItemType { return ItemTypeAlbum }

// Song is an indexed audio file.
type Song struct {
	ID int64 `json:"id"`
	MediaFile
	Title       string `json:"title,omitzero"`
	TrackNumber int    `json:"track_number,omitzero"`
	ArtistID    int64  `json:"artist_id,omitzero"`
	AlbumID     int64  `json:"album_id,omitzero"`
	GenreName   string `json:"genre_name,omitzero"` // populated by genre traversal queries
}

// ItemID implements Item.
func (s *Song) ItemID() int64 { return s.ID }

// ItemType implements Item.
func (s *Song) ItemType() ItemType { return ItemTypeSong }
