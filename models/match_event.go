package models

import "time"

type MatchEventType string

const (
	EventGoal         MatchEventType = "GOAL"
	EventOwnGoal      MatchEventType = "OWN_GOAL"
	EventAssist       MatchEventType = "ASSIST"
	EventSave         MatchEventType = "SAVE"
	EventYellowCard   MatchEventType = "YELLOW_CARD"
	EventRedCard      MatchEventType = "RED_CARD"
	EventCorner       MatchEventType = "CORNER"
	EventFoul         MatchEventType = "FOUL"
	EventPenalty      MatchEventType = "PENALTY"
	EventSubstitution MatchEventType = "SUBSTITUTION"
	EventOffside      MatchEventType = "OFFSIDE"
)

type PenaltyOutcome string

const (
	PenaltyScored PenaltyOutcome = "SCORED"
	PenaltyMissed PenaltyOutcome = "MISSED"
	PenaltySaved  PenaltyOutcome = "SAVED"
)

func (o PenaltyOutcome) Valid() bool {
	switch o {
	case PenaltyScored, PenaltyMissed, PenaltySaved:
		return true
	}
	return false
}

// MatchEvent is one recorded occurrence on a fixture's timeline. Minute is a
// display attribute only; no aggregate depends on event order. Deleting an
// event must reverse exactly the aggregate effects its creation applied.
type MatchEvent struct {
	ID             int             `json:"id" db:"id"`
	FixtureID      int             `json:"fixture_id" db:"fixture_id"`
	Type           MatchEventType  `json:"type" db:"type"`
	Minute         *int            `json:"minute,omitempty" db:"minute"`
	PlayerID       *int            `json:"player_id,omitempty" db:"player_id"`
	PenaltyOutcome *PenaltyOutcome `json:"penalty_outcome,omitempty" db:"penalty_outcome"`
	Metadata       *string         `json:"-" db:"metadata"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`

	Player *User `json:"player,omitempty" db:"-"`

	// ParsedMetadata carries the decoded Metadata JSON in responses.
	ParsedMetadata interface{} `json:"metadata,omitempty" db:"-"`
}

// SubstitutionMetadata captures both players of a substitution for display.
type SubstitutionMetadata struct {
	ReplacedPlayerID   int     `json:"replacedPlayerId"`
	SubstitutePlayerID int     `json:"substitutePlayerId"`
	Position           *string `json:"position,omitempty"`
	PlayerOffName      string  `json:"playerOffName,omitempty"`
	PlayerOnName       string  `json:"playerOnName,omitempty"`
	PlayerOffImage     *string `json:"playerOffImage,omitempty"`
	PlayerOnImage      *string `json:"playerOnImage,omitempty"`
}

type PenaltyMetadata struct {
	GoalkeeperID    *int    `json:"goalkeeperId"`
	PlayerName      string  `json:"playerName,omitempty"`
	PlayerImage     *string `json:"playerImage,omitempty"`
	GoalkeeperName  string  `json:"goalkeeperName,omitempty"`
	GoalkeeperImage *string `json:"goalkeeperImage,omitempty"`
}

type OffsideMetadata struct {
	TeamID int `json:"teamId"`
}

// SaveMetadata optionally carries the keeper's minutes at the time of the save.
type SaveMetadata struct {
	MinutesPlayed *int `json:"minutesPlayed,omitempty"`
}
