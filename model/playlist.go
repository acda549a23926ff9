package model

import "time"

// Playlist is an ordered set of songs owned by exactly one user. Only
// the owner may mutate it; non-owners may read it when it is public.
type Playlist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"coverImage,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	IsPublic    bool      `json:"isPublic"`
	Plays       int64     `json:"plays"`
	Genre       string    `json:"genre,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Songs is populated on detail reads, in playlist order.
	Songs []*Song `json:"songs,omitempty"`
}
