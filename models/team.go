package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CaptainID *int      `json:"captain_id,omitempty" db:"captain_id"`
	LogoKey   *string   `json:"-" db:"logo_key"`
	LogoURL   *string   `json:"logo,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Populated by the service layer, not stored on the teams table.
	Members []*User `json:"members,omitempty" db:"-"`
}
