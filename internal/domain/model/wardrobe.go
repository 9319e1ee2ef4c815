package model

import "time"

// Garment categories the tagging prompt asks for. The set is advisory; tags
// returned by the model are stored as-is.
var GarmentCategories = []string{"top", "bottom", "dress", "shoes", "outerwear", "accessory", "headwear"}

// GarmentTags is what tag extraction returns for one clothing image.
type GarmentTags struct {
	Category   string   `json:"category"`
	ColorTags  []string `json:"color_tags"`
	StyleTags  []string `json:"style_tags"`
	SeasonTags []string `json:"season_tags"`
	Notes      string   `json:"notes"`
}

// WardrobeItem is one stored garment.
type WardrobeItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Category  string    `json:"category"`
	Colors    []string  `json:"colors"`
	Styles    []string  `json:"styles"`
	Seasons   []string  `json:"seasons,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WardrobeItemFromTags builds an item from extracted tags.
func WardrobeItemFromTags(id, userID string, tags GarmentTags, now time.Time) WardrobeItem {
	return WardrobeItem{
		ID:        id,
		UserID:    userID,
		Category:  tags.Category,
		Colors:    tags.ColorTags,
		Styles:    tags.StyleTags,
		Seasons:   tags.SeasonTags,
		Notes:     tags.Notes,
		CreatedAt: now,
	}
}

// Image is a binary image payload with its sniffed MIME type.
type Image struct {
	MIMEType string
	Data     []byte
}
