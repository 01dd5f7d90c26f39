package models

import "time"

// LeaderboardEntry is a player's cumulative statline within one tournament,
// keyed uniquely by (tournament, player). TeamID tracks the team the player
// most recently appeared for.
type LeaderboardEntry struct {
	ID           int `json:"id" db:"id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`
	PlayerID     int `json:"player_id" db:"player_id"`
	TeamID       int `json:"team_id" db:"team_id"`
	Goals        int `json:"goals" db:"goals"`
	Assists      int `json:"assists" db:"assists"`
	Saves        int `json:"saves" db:"saves"`
	CleanSheets  int `json:"clean_sheets" db:"clean_sheets"`
	YellowCards  int `json:"yellow_cards" db:"yellow_cards"`
	RedCards     int `json:"red_cards" db:"red_cards"`
	Corners      int `json:"corners" db:"corners"`
	Fouls        int `json:"fouls" db:"fouls"`
	Penaltys     int `json:"penaltys" db:"penaltys"`

	Player *User `json:"player,omitempty" db:"-"`
	Team   *Team `json:"team,omitempty" db:"-"`
}

// TournamentStanding is a team's cumulative standing within a tournament,
// keyed uniquely by (tournament, team). Upserted when a fixture goes
// FULL_TIME, reverted when a finalized fixture is deleted.
type TournamentStanding struct {
	ID             int       `json:"id" db:"id"`
	TournamentID   int       `json:"tournament_id" db:"tournament_id"`
	TeamID         int       `json:"team_id" db:"team_id"`
	Played         int       `json:"played" db:"played"`
	Won            int       `json:"won" db:"won"`
	Drawn          int       `json:"drawn" db:"drawn"`
	Lost           int       `json:"lost" db:"lost"`
	GoalsFor       int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int       `json:"goals_against" db:"goals_against"`
	GoalDifference int       `json:"goal_difference" db:"goal_difference"`
	Points         int       `json:"points" db:"points"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
