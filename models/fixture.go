package models

import "time"

type FixtureStatus string

const (
	FixtureScheduled FixtureStatus = "SCHEDULED"
	FixtureLive      FixtureStatus = "LIVE"
	FixtureHalfTime  FixtureStatus = "HALF_TIME"
	FixtureFullTime  FixtureStatus = "FULL_TIME"
	FixtureCancelled FixtureStatus = "CANCELLED"
)

// Fixture is a single match between two teams of one tournament. Score fields
// stay NULL until the first goal event (or an explicit admin edit) touches
// them; once events exist the scores move only through event application and
// reversal. StandingsApplied marks that the FULL_TIME aggregation already ran,
// so finalization is idempotent and deletion knows whether to revert standings.
type Fixture struct {
	ID               int           `json:"id" db:"id"`
	TournamentID     int           `json:"tournament_id" db:"tournament_id"`
	ContainerID      *int          `json:"container_id,omitempty" db:"container_id"`
	HomeTeamID       int           `json:"home_team_id" db:"home_team_id"`
	AwayTeamID       int           `json:"away_team_id" db:"away_team_id"`
	Date             time.Time     `json:"date" db:"date"`
	Time             *string       `json:"time,omitempty" db:"time"`
	Venue            *string       `json:"venue,omitempty" db:"venue"`
	Status           FixtureStatus `json:"status" db:"status"`
	HomeScore        *int          `json:"home_score" db:"home_score"`
	AwayScore        *int          `json:"away_score" db:"away_score"`
	HomePenaltyScore int           `json:"home_penalty_score" db:"home_penalty_score"`
	AwayPenaltyScore int           `json:"away_penalty_score" db:"away_penalty_score"`
	StandingsApplied bool          `json:"-" db:"standings_applied"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`

	HomeTeam *Team         `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team         `json:"away_team,omitempty" db:"-"`
	Events   []*MatchEvent `json:"events,omitempty" db:"-"`
}

// FixtureContainer groups a batch of fixtures created together, for example
// one round of group-stage matches.
type FixtureContainer struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	MatchType    string    `json:"match_type" db:"match_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Subfixtures []*Fixture `json:"subfixtures,omitempty" db:"-"`
}
