package models

import "time"

// MaxLineupSize caps one team's roster for a single fixture.
const MaxLineupSize = 25

type Lineup struct {
	ID        int       `json:"id" db:"id"`
	FixtureID int       `json:"fixture_id" db:"fixture_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Players []*PlayerStats `json:"players,omitempty" db:"-"`
}

// PlayerStats is one player's record for one fixture. The row lives and dies
// with its lineup: replacing a lineup recreates the rows, deleting the fixture
// removes them.
type PlayerStats struct {
	ID            int            `json:"id" db:"id"`
	LineupID      int            `json:"lineup_id" db:"lineup_id"`
	PlayerID      int            `json:"player_id" db:"player_id"`
	TournamentID  int            `json:"tournament_id" db:"tournament_id"`
	Position      PlayerPosition `json:"position" db:"position"`
	IsStarting    bool           `json:"is_starting" db:"is_starting"`
	IsOnField     bool           `json:"is_on_field" db:"is_on_field"`
	JerseyNumber  *int           `json:"jersey_number,omitempty" db:"jersey_number"`
	MinutesPlayed int            `json:"minutes_played" db:"minutes_played"`
	Goals         int            `json:"goals" db:"goals"`
	Assists       int            `json:"assists" db:"assists"`
	YellowCards   int            `json:"yellow_cards" db:"yellow_cards"`
	RedCards      int            `json:"red_cards" db:"red_cards"`
	PenaltyGoals  int            `json:"penalty_goals" db:"penalty_goals"`

	// TeamID is the owning lineup's team, populated by join queries.
	TeamID int `json:"team_id,omitempty" db:"-"`

	Player *User `json:"player,omitempty" db:"-"`
}

// PlayerTournamentStats is a player's cumulative record within one tournament,
// keyed uniquely by (player, tournament).
type PlayerTournamentStats struct {
	ID            int  `json:"id" db:"id"`
	PlayerID      int  `json:"player_id" db:"player_id"`
	TournamentID  int  `json:"tournament_id" db:"tournament_id"`
	MatchesPlayed int  `json:"matches_played" db:"matches_played"`
	MinutesPlayed int  `json:"minutes_played" db:"minutes_played"`
	JerseyNumber  *int `json:"jersey_number,omitempty" db:"jersey_number"`
}
