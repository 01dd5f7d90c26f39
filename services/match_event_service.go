package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
)

// Broadcaster pushes fixture timeline updates to live subscribers. A nil
// broadcaster disables pushes.
type Broadcaster interface {
	BroadcastToFixture(fixtureID int, payload interface{})
}

// RecordEventInput is the wire shape of a timeline entry. PlayerID doubles as
// the replaced player on substitutions; SubstitutePlayerID, GoalkeeperID,
// TeamID and MinutesPlayed only apply to the types that use them.
type RecordEventInput struct {
	Type               models.MatchEventType  `json:"type"`
	Minute             *int                   `json:"minute"`
	PlayerID           *int                   `json:"player_id"`
	SubstitutePlayerID *int                   `json:"substitute_player_id"`
	Position           *string                `json:"position"`
	PenaltyOutcome     *models.PenaltyOutcome `json:"penalty_outcome"`
	GoalkeeperID       *int                   `json:"goalkeeper_id"`
	TeamID             *int                   `json:"team_id"`
	MinutesPlayed      *int                   `json:"minutes_played"`
}

type MatchEventService interface {
	Record(ctx context.Context, requesterID, fixtureID int, input RecordEventInput) (*models.MatchEvent, error)
	Delete(ctx context.Context, requesterID, eventID int) error
	ResetByFixture(ctx context.Context, requesterID, fixtureID int) (int, error)
	ListByFixture(ctx context.Context, fixtureID int) ([]*models.MatchEvent, error)
}

type matchEventService struct {
	db              *sql.DB
	engine          *statsEngine
	eventRepo       repositories.MatchEventRepository
	fixtureRepo     repositories.FixtureRepository
	tournamentRepo  repositories.TournamentRepository
	playerStatsRepo repositories.PlayerStatsRepository
	userRepo        repositories.UserRepository
	broadcaster     Broadcaster
}

func NewMatchEventService(
	db *sql.DB,
	engine *statsEngine,
	eventRepo repositories.MatchEventRepository,
	fixtureRepo repositories.FixtureRepository,
	tournamentRepo repositories.TournamentRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	userRepo repositories.UserRepository,
	broadcaster Broadcaster,
) MatchEventService {
	return &matchEventService{
		db:              db,
		engine:          engine,
		eventRepo:       eventRepo,
		fixtureRepo:     fixtureRepo,
		tournamentRepo:  tournamentRepo,
		playerStatsRepo: playerStatsRepo,
		userRepo:        userRepo,
		broadcaster:     broadcaster,
	}
}

// NewStatsEngine wires the event effects engine for the services that share it.
func NewStatsEngine(
	fixtureRepo repositories.FixtureRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	ptsRepo repositories.PlayerTournamentStatsRepository,
	userRepo repositories.UserRepository,
	countAllPenaltyAttempts bool,
) *statsEngine {
	return newStatsEngine(fixtureRepo, playerStatsRepo, leaderboardRepo, ptsRepo, userRepo, countAllPenaltyAttempts)
}

func (s *matchEventService) requireTournamentAdmin(ctx context.Context, exec repositories.SQLExecutor, tournamentID, requesterID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if tournament.AdminID != requesterID {
		return ErrTournamentAdminOnly
	}
	return nil
}

func (s *matchEventService) validate(ctx context.Context, fixture *models.Fixture, input RecordEventInput) error {
	if _, known := map[models.MatchEventType]bool{
		models.EventGoal: true, models.EventOwnGoal: true, models.EventAssist: true,
		models.EventSave: true, models.EventYellowCard: true, models.EventRedCard: true,
		models.EventCorner: true, models.EventFoul: true, models.EventPenalty: true,
		models.EventSubstitution: true, models.EventOffside: true,
	}[input.Type]; !known {
		return ErrEventTypeInvalid
	}
	if input.Minute != nil && (*input.Minute < 0 || *input.Minute > 150) {
		return ErrEventMinuteInvalid
	}
	if input.MinutesPlayed != nil && *input.MinutesPlayed < 0 {
		return fmt.Errorf("%w: minutes played cannot be negative", ErrValidationFailed)
	}

	switch input.Type {
	case models.EventSubstitution:
		if input.PlayerID == nil || input.SubstitutePlayerID == nil {
			return ErrSubstitutionIncomplete
		}
		if *input.PlayerID == *input.SubstitutePlayerID {
			return ErrSubstitutionSamePlayer
		}
	case models.EventOffside:
		if input.TeamID == nil || *input.TeamID == 0 {
			return ErrOffsideTeamRequired
		}
	case models.EventPenalty:
		if input.PlayerID == nil {
			return ErrEventPlayerRequired
		}
		if input.PenaltyOutcome == nil {
			return ErrPenaltyOutcomeRequired
		}
		if !input.PenaltyOutcome.Valid() {
			return ErrPenaltyOutcomeInvalid
		}
	case models.EventSave:
		if input.PlayerID == nil {
			return ErrEventPlayerRequired
		}
		// Saves are gated on the position the player holds in this fixture's
		// lineup, not on their profile position.
		stats, err := s.playerStatsRepo.FindByPlayerAndFixture(ctx, nil, *input.PlayerID, fixture.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
				return ErrSaveRequiresGoalkeeper
			}
			return err
		}
		if stats.Position != models.PositionGoalkeeper {
			return ErrSaveRequiresGoalkeeper
		}
	default:
		if input.PlayerID == nil {
			return ErrEventPlayerRequired
		}
	}
	return nil
}

// buildMetadata assembles the stored metadata for the types that carry one,
// enriched with names and images so timelines render without extra lookups.
func (s *matchEventService) buildMetadata(ctx context.Context, input RecordEventInput) (*string, error) {
	var meta interface{}
	switch input.Type {
	case models.EventSubstitution:
		sub := models.SubstitutionMetadata{
			ReplacedPlayerID:   *input.PlayerID,
			SubstitutePlayerID: *input.SubstitutePlayerID,
			Position:           input.Position,
		}
		if off, err := s.userRepo.GetByID(ctx, nil, sub.ReplacedPlayerID); err == nil {
			sub.PlayerOffName = off.FullName()
			sub.PlayerOffImage = off.LogoKey
		}
		if on, err := s.userRepo.GetByID(ctx, nil, sub.SubstitutePlayerID); err == nil {
			sub.PlayerOnName = on.FullName()
			sub.PlayerOnImage = on.LogoKey
		}
		meta = sub
	case models.EventPenalty:
		pen := models.PenaltyMetadata{GoalkeeperID: input.GoalkeeperID}
		if taker, err := s.userRepo.GetByID(ctx, nil, *input.PlayerID); err == nil {
			pen.PlayerName = taker.FullName()
			pen.PlayerImage = taker.LogoKey
		}
		if input.GoalkeeperID != nil {
			if keeper, err := s.userRepo.GetByID(ctx, nil, *input.GoalkeeperID); err == nil {
				pen.GoalkeeperName = keeper.FullName()
				pen.GoalkeeperImage = keeper.LogoKey
			}
		}
		meta = pen
	case models.EventOffside:
		meta = models.OffsideMetadata{TeamID: *input.TeamID}
	case models.EventSave:
		if input.MinutesPlayed == nil {
			return nil, nil
		}
		meta = models.SaveMetadata{MinutesPlayed: input.MinutesPlayed}
	default:
		return nil, nil
	}

	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event metadata: %w", err)
	}
	raw := string(encoded)
	return &raw, nil
}

func (s *matchEventService) Record(ctx context.Context, requesterID, fixtureID int, input RecordEventInput) (*models.MatchEvent, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	if err := s.requireTournamentAdmin(ctx, nil, fixture.TournamentID, requesterID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, fixture, input); err != nil {
		return nil, err
	}

	metadata, err := s.buildMetadata(ctx, input)
	if err != nil {
		return nil, err
	}
	event := &models.MatchEvent{
		FixtureID:      fixtureID,
		Type:           input.Type,
		Minute:         input.Minute,
		PlayerID:       input.PlayerID,
		PenaltyOutcome: input.PenaltyOutcome,
		Metadata:       metadata,
	}

	err = runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		if err := s.eventRepo.Create(ctx, tx, event); err != nil {
			return fmt.Errorf("failed to create match event: %w", err)
		}
		return s.engine.applyEvent(ctx, tx, fixture, event, +1)
	})
	if err != nil {
		return nil, err
	}

	s.decorateEvent(ctx, event)
	s.broadcast(fixtureID, "event_recorded", event)
	return event, nil
}

func (s *matchEventService) Delete(ctx context.Context, requesterID, eventID int) error {
	event, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchEventNotFound) {
			return ErrMatchEventNotFound
		}
		return err
	}
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, event.FixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return ErrFixtureNotFound
		}
		return err
	}
	if err := s.requireTournamentAdmin(ctx, nil, fixture.TournamentID, requesterID); err != nil {
		return err
	}

	err = runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		if err := s.engine.applyEvent(ctx, tx, fixture, event, -1); err != nil {
			return err
		}
		return s.eventRepo.Delete(ctx, tx, eventID)
	})
	if err != nil {
		return err
	}

	s.broadcast(fixture.ID, "event_deleted", map[string]int{"event_id": eventID})
	return nil
}

// ResetByFixture reverses and removes every event on the fixture's timeline,
// then normalizes the scoreboard back to zero. Returns the number of events
// removed.
func (s *matchEventService) ResetByFixture(ctx context.Context, requesterID, fixtureID int) (int, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return 0, ErrFixtureNotFound
		}
		return 0, err
	}
	if err := s.requireTournamentAdmin(ctx, nil, fixture.TournamentID, requesterID); err != nil {
		return 0, err
	}

	var deleted int
	err = runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		events, err := s.eventRepo.ListByFixture(ctx, tx, fixtureID)
		if err != nil {
			return err
		}
		for _, event := range events {
			if err := s.engine.applyEvent(ctx, tx, fixture, event, -1); err != nil {
				return err
			}
		}
		if err := s.eventRepo.DeleteByFixtureID(ctx, tx, fixtureID); err != nil {
			return err
		}
		deleted = len(events)
		return s.fixtureRepo.ResetScore(ctx, tx, fixtureID)
	})
	if err != nil {
		return 0, err
	}

	s.broadcast(fixtureID, "events_reset", map[string]int{"fixture_id": fixtureID, "deleted_count": deleted})
	return deleted, nil
}

func (s *matchEventService) ListByFixture(ctx context.Context, fixtureID int) ([]*models.MatchEvent, error) {
	if _, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID); err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	events, err := s.eventRepo.ListByFixture(ctx, nil, fixtureID)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		s.decorateEvent(ctx, event)
	}
	return events, nil
}

// decorateEvent fills the display fields: the player and the decoded metadata.
func (s *matchEventService) decorateEvent(ctx context.Context, event *models.MatchEvent) {
	if event.PlayerID != nil {
		if user, err := s.userRepo.GetByID(ctx, nil, *event.PlayerID); err == nil {
			user.PasswordHash = ""
			event.Player = user
		}
	}
	if event.Metadata == nil {
		return
	}
	switch event.Type {
	case models.EventSubstitution:
		var meta models.SubstitutionMetadata
		if json.Unmarshal([]byte(*event.Metadata), &meta) == nil {
			event.ParsedMetadata = meta
		}
	case models.EventPenalty:
		var meta models.PenaltyMetadata
		if json.Unmarshal([]byte(*event.Metadata), &meta) == nil {
			event.ParsedMetadata = meta
		}
	case models.EventOffside:
		var meta models.OffsideMetadata
		if json.Unmarshal([]byte(*event.Metadata), &meta) == nil {
			event.ParsedMetadata = meta
		}
	case models.EventSave:
		var meta models.SaveMetadata
		if json.Unmarshal([]byte(*event.Metadata), &meta) == nil {
			event.ParsedMetadata = meta
		}
	default:
		var meta map[string]interface{}
		if json.Unmarshal([]byte(*event.Metadata), &meta) == nil {
			event.ParsedMetadata = meta
		}
	}
}

func (s *matchEventService) broadcast(fixtureID int, kind string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToFixture(fixtureID, map[string]interface{}{
		"type":    kind,
		"payload": payload,
	})
}
