package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	// Generic
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Authentication and authorization
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrTournamentAdminOnly  = errors.New("only the tournament admin can perform this action")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrUserAlreadyInTeam      = errors.New("user is already in a team")
	ErrTeamAlreadyRegistered  = errors.New("team is already registered for this tournament")
	ErrJerseyNumberTaken      = errors.New("jersey number is already taken in this tournament")

	// Entity lookups
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrFixtureNotFound    = errors.New("fixture not found")
	ErrContainerNotFound  = errors.New("fixture container not found")
	ErrLineupNotFound     = errors.New("lineup not found")
	ErrMatchEventNotFound = errors.New("match event not found")
	ErrPostNotFound       = errors.New("post not found")

	// Fixtures
	ErrTeamsMustDiffer       = errors.New("home and away teams must differ")
	ErrTeamNotInTournament   = errors.New("team is not registered in this tournament")
	ErrFixtureInvalidStatus  = errors.New("invalid fixture status provided")
	ErrFixtureNotModifiable  = errors.New("fixture can no longer be modified")
	ErrFixtureScoreNegative  = errors.New("fixture score cannot be negative")
	ErrFixtureDateRequired   = errors.New("fixture date is required")
	ErrContainerTeamsUneven  = errors.New("container requires an even number of distinct teams")
	ErrFixtureDateOutOfRange = errors.New("fixture date must fall within the tournament dates")

	// Lineups
	ErrLineupTeamNotInFixture = errors.New("team does not play in this fixture")
	ErrLineupTooLarge         = errors.New("lineup exceeds the maximum roster size")
	ErrPlayerInBothLineups    = errors.New("player cannot appear in both lineups of one fixture")
	ErrPlayerNotInTeam        = errors.New("player is not a member of this team")
	ErrPlayerNotInLineup      = errors.New("player is not part of this lineup")
	ErrLineupAlreadyExists    = errors.New("lineup for this team and fixture already exists")

	// Match events
	ErrEventTypeInvalid        = errors.New("unknown match event type")
	ErrEventMinuteInvalid      = errors.New("event minute must be between 0 and 150")
	ErrEventPlayerRequired     = errors.New("event requires a player")
	ErrSaveRequiresGoalkeeper  = errors.New("save events can only be recorded for goalkeepers")
	ErrPenaltyOutcomeRequired  = errors.New("penalty events require an outcome")
	ErrPenaltyOutcomeInvalid   = errors.New("unknown penalty outcome")
	ErrSubstitutionIncomplete  = errors.New("substitution requires both players")
	ErrSubstitutionSamePlayer  = errors.New("substitution players must differ")
	ErrOffsideTeamRequired     = errors.New("offside events require a team")
	ErrEventPlayerTeamUnknown  = errors.New("could not resolve the player's team for this fixture")
	ErrPostContentRequired     = errors.New("post content is required")
	ErrLeaderboardFieldInvalid = errors.New("unknown leaderboard field")
)
