package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)

type PlayerPosition string

const (
	PositionGoalkeeper PlayerPosition = "GOALKEEPER"
	PositionDefender   PlayerPosition = "DEFENDER"
	PositionMidfielder PlayerPosition = "MIDFIELDER"
	PositionForward    PlayerPosition = "FORWARD"
)

type User struct {
	ID              int             `json:"id" db:"id"`
	FirstName       string          `json:"first_name" db:"first_name"`
	LastName        string          `json:"last_name" db:"last_name"`
	Email           string          `json:"email" db:"email"`
	PasswordHash    string          `json:"-" db:"password_hash"`
	Role            UserRole        `json:"role" db:"role"`
	TeamID          *int            `json:"team_id,omitempty" db:"team_id"`
	PhoneNumber     *string         `json:"phone_number,omitempty" db:"phone_number"`
	PrimaryPosition *PlayerPosition `json:"primary_position,omitempty" db:"primary_position"`
	PreferredFoot   *string         `json:"preferred_foot,omitempty" db:"preferred_foot"`
	IsPlaying       bool            `json:"is_playing" db:"is_playing"`
	MatchesPlayed   int             `json:"matches_played" db:"matches_played"`
	LogoKey         *string         `json:"-" db:"logo_key"`
	LogoURL         *string         `json:"image,omitempty" db:"-"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
