package model

import (
	"encoding/json"
	"time"
)

type Place struct {
	ContentID int64     `json:"content_id"`
	Title     string    `json:"title"`
	Address   string    `json:"address"`
	TypeCode  string    `json:"type_code"`
	Overview  string    `json:"overview"`
	ImageURL  string    `json:"image_url"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaceFilter narrows a place listing. Zero values mean "no filter".
type PlaceFilter struct {
	TypeCode      string
	AddressPrefix string
	Search        string
	Tag           string
	Sort          string // "updated", "created" or "" (newest id first)
	Limit         int
	Offset        int
}

// UserPreference is a user's declared travel-style attribute bag.
type UserPreference struct {
	UserID      int64           `json:"user_id"`
	Preferences json.RawMessage `json:"preferences"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PlaceComment is a short note left on a place, shown with its author's
// nickname.
type PlaceComment struct {
	ID        int64     `json:"id"`
	PlaceID   int64     `json:"place_id"`
	UserID    int64     `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
