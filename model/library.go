package model

import "time"

// Favorite is a membership row of a user's favorites set. The composite
// primary key enforces set semantics at the storage layer.
type Favorite struct {
	UserID    int64     `gorm:"primaryKey" json:"userId"`
	SongID    int64     `gorm:"primaryKey" json:"songId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName maps Favorite onto the favorites table.
func (Favorite) TableName() string {
	return "favorites"
}

// RecentPlay is one row of a user's recently-played history. The unique
// (user_id, song_id) index keeps each song in the history at most once.
type RecentPlay struct {
	ID       int64     `gorm:"primaryKey" json:"id"`
	UserID   int64     `gorm:"index" json:"userId"`
	SongID   int64     `json:"songId"`
	PlayedAt time.Time `json:"playedAt"`
}

// TableName maps RecentPlay onto the recently_played table.
func (RecentPlay) TableName() string {
	return "recently_played"
}
