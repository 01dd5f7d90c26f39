package models

import "time"

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCanceled  TournamentStatus = "canceled"
)

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	AdminID   int              `json:"admin_id" db:"admin_id"`
	Status    TournamentStatus `json:"status" db:"status"`
	StartDate *time.Time       `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time       `json:"end_date,omitempty" db:"end_date"`
	LogoKey   *string          `json:"-" db:"logo_key"`
	LogoURL   *string          `json:"banner,omitempty" db:"-"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Teams []*Team `json:"teams,omitempty" db:"-"`
}
