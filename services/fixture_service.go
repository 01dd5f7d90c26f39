package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
)

type CreateFixtureInput struct {
	TournamentID int        `json:"tournament_id"`
	HomeTeamID   int        `json:"home_team_id"`
	AwayTeamID   int        `json:"away_team_id"`
	Date         *time.Time `json:"date"`
	Time         *string    `json:"time"`
	Venue        *string    `json:"venue"`
	ContainerID  *int       `json:"container_id"`
}

type UpdateFixtureInput struct {
	Date      *time.Time            `json:"date"`
	Time      *string               `json:"time"`
	Venue     *string               `json:"venue"`
	Status    *models.FixtureStatus `json:"status"`
	HomeScore *int                  `json:"home_score"`
	AwayScore *int                  `json:"away_score"`
}

type FixturePairInput struct {
	HomeTeamID int `json:"home_team_id"`
	AwayTeamID int `json:"away_team_id"`
}

type CreateContainerInput struct {
	TournamentID int                `json:"tournament_id"`
	MatchType    string             `json:"match_type"`
	Date         *time.Time         `json:"date"`
	Pairs        []FixturePairInput `json:"pairs"`
}

type FixtureService interface {
	Create(ctx context.Context, requesterID int, input CreateFixtureInput) (*models.Fixture, error)
	GetByID(ctx context.Context, id int) (*models.Fixture, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Fixture, error)
	Update(ctx context.Context, requesterID, id int, input UpdateFixtureInput) (*models.Fixture, error)
	Delete(ctx context.Context, requesterID, id int) error

	CreateContainer(ctx context.Context, requesterID int, input CreateContainerInput) (*models.FixtureContainer, error)
	ListContainers(ctx context.Context, tournamentID int) ([]*models.FixtureContainer, error)
}

type fixtureService struct {
	db              *sql.DB
	engine          *statsEngine
	fixtureRepo     repositories.FixtureRepository
	tournamentRepo  repositories.TournamentRepository
	teamRepo        repositories.TeamRepository
	eventRepo       repositories.MatchEventRepository
	lineupRepo      repositories.LineupRepository
	playerStatsRepo repositories.PlayerStatsRepository
	standingService StandingService
	uploader        storage.FileUploader
	broadcaster     Broadcaster
}

func NewFixtureService(
	db *sql.DB,
	engine *statsEngine,
	fixtureRepo repositories.FixtureRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	eventRepo repositories.MatchEventRepository,
	lineupRepo repositories.LineupRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	standingService StandingService,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
) FixtureService {
	return &fixtureService{
		db:              db,
		engine:          engine,
		fixtureRepo:     fixtureRepo,
		tournamentRepo:  tournamentRepo,
		teamRepo:        teamRepo,
		eventRepo:       eventRepo,
		lineupRepo:      lineupRepo,
		playerStatsRepo: playerStatsRepo,
		standingService: standingService,
		uploader:        uploader,
		broadcaster:     broadcaster,
	}
}

var validFixtureStatuses = map[models.FixtureStatus]bool{
	models.FixtureScheduled: true,
	models.FixtureLive:      true,
	models.FixtureHalfTime:  true,
	models.FixtureFullTime:  true,
	models.FixtureCancelled: true,
}

func (s *fixtureService) requireTournamentAdmin(ctx context.Context, tournamentID, requesterID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.AdminID != requesterID {
		return nil, ErrTournamentAdminOnly
	}
	return tournament, nil
}

func (s *fixtureService) validateTeams(ctx context.Context, tournamentID, homeTeamID, awayTeamID int) error {
	if homeTeamID == awayTeamID {
		return ErrTeamsMustDiffer
	}
	teamIDs, err := s.tournamentRepo.ListTeamIDs(ctx, nil, tournamentID)
	if err != nil {
		return err
	}
	registered := make(map[int]bool, len(teamIDs))
	for _, id := range teamIDs {
		registered[id] = true
	}
	if !registered[homeTeamID] || !registered[awayTeamID] {
		return ErrTeamNotInTournament
	}
	return nil
}

func (s *fixtureService) Create(ctx context.Context, requesterID int, input CreateFixtureInput) (*models.Fixture, error) {
	if _, err := s.requireTournamentAdmin(ctx, input.TournamentID, requesterID); err != nil {
		return nil, err
	}
	if input.Date == nil {
		return nil, ErrFixtureDateRequired
	}
	if err := s.validateTeams(ctx, input.TournamentID, input.HomeTeamID, input.AwayTeamID); err != nil {
		return nil, err
	}

	fixture := &models.Fixture{
		TournamentID: input.TournamentID,
		ContainerID:  input.ContainerID,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		Date:         *input.Date,
		Time:         input.Time,
		Venue:        input.Venue,
		Status:       models.FixtureScheduled,
	}
	if err := s.fixtureRepo.Create(ctx, nil, fixture); err != nil {
		return nil, fmt.Errorf("failed to create fixture: %w", err)
	}
	s.populateTeams(ctx, fixture)
	return fixture, nil
}

func (s *fixtureService) GetByID(ctx context.Context, id int) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	s.populateTeams(ctx, fixture)

	events, err := s.eventRepo.ListByFixture(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	fixture.Events = events
	return fixture, nil
}

func (s *fixtureService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Fixture, error) {
	fixtures, err := s.fixtureRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, f := range fixtures {
		s.populateTeams(ctx, f)
	}
	return fixtures, nil
}

// Update edits schedule fields, scores and status. Moving the status to
// FULL_TIME finalizes the fixture: standings, clean sheets and match counters
// are applied in the same transaction. Moving a finalized fixture back out of
// FULL_TIME reverts all of it first.
func (s *fixtureService) Update(ctx context.Context, requesterID, id int, input UpdateFixtureInput) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	if _, err := s.requireTournamentAdmin(ctx, fixture.TournamentID, requesterID); err != nil {
		return nil, err
	}
	if input.Status != nil && !validFixtureStatuses[*input.Status] {
		return nil, ErrFixtureInvalidStatus
	}
	if (input.HomeScore != nil && *input.HomeScore < 0) || (input.AwayScore != nil && *input.AwayScore < 0) {
		return nil, ErrFixtureScoreNegative
	}
	if fixture.Status == models.FixtureCancelled {
		return nil, ErrFixtureNotModifiable
	}

	err = runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		leavingFullTime := fixture.Status == models.FixtureFullTime &&
			input.Status != nil && *input.Status != models.FixtureFullTime
		if leavingFullTime || (fixture.StandingsApplied && (input.HomeScore != nil || input.AwayScore != nil)) {
			if err := s.standingService.RevertFixture(ctx, tx, fixture); err != nil {
				return err
			}
		}

		upd := repositories.FixtureUpdate{
			Time:      input.Time,
			Venue:     input.Venue,
			Status:    input.Status,
			HomeScore: input.HomeScore,
			AwayScore: input.AwayScore,
		}
		if input.Date != nil {
			dateStr := input.Date.Format(time.RFC3339)
			upd.Date = &dateStr
		}
		if err := s.fixtureRepo.Update(ctx, tx, id, upd); err != nil {
			return err
		}

		refreshed, err := s.fixtureRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		*fixture = *refreshed

		if fixture.Status == models.FixtureFullTime {
			return s.standingService.FinalizeFixture(ctx, tx, fixture)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.populateTeams(ctx, fixture)
	s.broadcast(fixture.ID, "fixture_updated", fixture)
	return fixture, nil
}

// Delete removes the fixture and rewinds every trace it left: standings (when
// finalized), event-driven leaderboard aggregates, lineups and the timeline.
func (s *fixtureService) Delete(ctx context.Context, requesterID, id int) error {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return ErrFixtureNotFound
		}
		return err
	}
	if _, err := s.requireTournamentAdmin(ctx, fixture.TournamentID, requesterID); err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		if err := s.standingService.RevertFixture(ctx, tx, fixture); err != nil {
			return err
		}

		events, err := s.eventRepo.ListByFixture(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, event := range events {
			if err := s.engine.applyEvent(ctx, tx, fixture, event, -1); err != nil {
				return err
			}
		}
		if err := s.eventRepo.DeleteByFixtureID(ctx, tx, id); err != nil {
			return err
		}

		lineups, err := s.lineupRepo.ListByFixture(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, lineup := range lineups {
			if err := s.playerStatsRepo.DeleteByLineupID(ctx, tx, lineup.ID); err != nil {
				return err
			}
		}
		if err := s.lineupRepo.DeleteByFixtureID(ctx, tx, id); err != nil {
			return err
		}
		return s.fixtureRepo.Delete(ctx, tx, id)
	})
}

func (s *fixtureService) CreateContainer(ctx context.Context, requesterID int, input CreateContainerInput) (*models.FixtureContainer, error) {
	if _, err := s.requireTournamentAdmin(ctx, input.TournamentID, requesterID); err != nil {
		return nil, err
	}
	if len(input.Pairs) == 0 {
		return nil, fmt.Errorf("%w: at least one fixture pair is required", ErrValidationFailed)
	}
	seen := make(map[int]bool)
	for _, pair := range input.Pairs {
		if err := s.validateTeams(ctx, input.TournamentID, pair.HomeTeamID, pair.AwayTeamID); err != nil {
			return nil, err
		}
		if seen[pair.HomeTeamID] || seen[pair.AwayTeamID] {
			return nil, ErrContainerTeamsUneven
		}
		seen[pair.HomeTeamID] = true
		seen[pair.AwayTeamID] = true
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	container := &models.FixtureContainer{TournamentID: input.TournamentID, MatchType: input.MatchType}
	err := runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		if err := s.fixtureRepo.CreateContainer(ctx, tx, container); err != nil {
			return fmt.Errorf("failed to create fixture container: %w", err)
		}
		for _, pair := range input.Pairs {
			fixture := &models.Fixture{
				TournamentID: input.TournamentID,
				ContainerID:  &container.ID,
				HomeTeamID:   pair.HomeTeamID,
				AwayTeamID:   pair.AwayTeamID,
				Date:         date,
				Status:       models.FixtureScheduled,
			}
			if err := s.fixtureRepo.Create(ctx, tx, fixture); err != nil {
				return err
			}
			container.Subfixtures = append(container.Subfixtures, fixture)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return container, nil
}

func (s *fixtureService) ListContainers(ctx context.Context, tournamentID int) ([]*models.FixtureContainer, error) {
	containers, err := s.fixtureRepo.ListContainersByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, c := range containers {
		fixtures, errList := s.fixtureRepo.ListByContainer(ctx, nil, c.ID)
		if errList != nil {
			return nil, errList
		}
		for _, f := range fixtures {
			s.populateTeams(ctx, f)
		}
		c.Subfixtures = fixtures
	}
	return containers, nil
}

func (s *fixtureService) populateTeams(ctx context.Context, fixture *models.Fixture) {
	if home, err := s.teamRepo.GetByID(ctx, nil, fixture.HomeTeamID); err == nil {
		populateTeamLogoURL(home, s.uploader)
		fixture.HomeTeam = home
	}
	if away, err := s.teamRepo.GetByID(ctx, nil, fixture.AwayTeamID); err == nil {
		populateTeamLogoURL(away, s.uploader)
		fixture.AwayTeam = away
	}
}

func (s *fixtureService) broadcast(fixtureID int, kind string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToFixture(fixtureID, map[string]interface{}{
		"type":    kind,
		"payload": payload,
	})
}
