package models

import "time"

type Post struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	AuthorID     int       `json:"author_id" db:"author_id"`
	Content      string    `json:"content" db:"content"`
	ImageKey     *string   `json:"-" db:"image_key"`
	ImageURL     *string   `json:"image,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Author *User `json:"author,omitempty" db:"-"`
}
