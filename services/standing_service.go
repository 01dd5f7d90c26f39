package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
)

type StandingService interface {
	// FinalizeFixture applies the fixture's result to the standings table and
	// the per-player match counters. Safe to call twice: a fixture whose
	// result was already applied is left untouched.
	FinalizeFixture(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture) error

	// RevertFixture undoes FinalizeFixture with the exact negated deltas.
	RevertFixture(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture) error

	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error)
}

type standingService struct {
	standingRepo    repositories.StandingRepository
	fixtureRepo     repositories.FixtureRepository
	playerStatsRepo repositories.PlayerStatsRepository
	ptsRepo         repositories.PlayerTournamentStatsRepository
	leaderboardRepo repositories.LeaderboardRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	uploader        storage.FileUploader
}

func NewStandingService(
	standingRepo repositories.StandingRepository,
	fixtureRepo repositories.FixtureRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	ptsRepo repositories.PlayerTournamentStatsRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) StandingService {
	return &standingService{
		standingRepo:    standingRepo,
		fixtureRepo:     fixtureRepo,
		playerStatsRepo: playerStatsRepo,
		ptsRepo:         ptsRepo,
		leaderboardRepo: leaderboardRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		uploader:        uploader,
	}
}

// computeStandingDeltas derives both teams' standing adjustments from the
// final score. A draw on goals decided by a penalty shootout counts as a win
// and a loss, not as two draws.
func computeStandingDeltas(fixture *models.Fixture) (home, away repositories.StandingDeltas) {
	hs := derefInt(fixture.HomeScore)
	as := derefInt(fixture.AwayScore)

	home = repositories.StandingDeltas{Played: 1, GoalsFor: hs, GoalsAgainst: as}
	away = repositories.StandingDeltas{Played: 1, GoalsFor: as, GoalsAgainst: hs}

	switch {
	case hs > as:
		home.Won, home.Points = 1, 3
		away.Lost = 1
	case as > hs:
		away.Won, away.Points = 1, 3
		home.Lost = 1
	case fixture.HomePenaltyScore > fixture.AwayPenaltyScore:
		home.Won, home.Points = 1, 3
		away.Lost = 1
	case fixture.AwayPenaltyScore > fixture.HomePenaltyScore:
		away.Won, away.Points = 1, 3
		home.Lost = 1
	default:
		home.Drawn, home.Points = 1, 1
		away.Drawn, away.Points = 1, 1
	}
	return home, away
}

// pickCleanSheetKeeper selects the player credited with a clean sheet.
// Preference order: starting keeper, then any keeper, then the first player
// named in the lineup.
func pickCleanSheetKeeper(players []*models.PlayerStats) *models.PlayerStats {
	var any *models.PlayerStats
	for _, p := range players {
		if p.Position != models.PositionGoalkeeper {
			continue
		}
		if p.IsStarting {
			return p
		}
		if any == nil {
			any = p
		}
	}
	if any != nil {
		return any
	}
	if len(players) > 0 {
		return players[0]
	}
	return nil
}

func (s *standingService) FinalizeFixture(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture) error {
	if fixture.StandingsApplied {
		return nil
	}
	// Without both scores there is no result to apply. The fixture can still
	// be finalized later, once the scoreboard is filled in.
	if fixture.HomeScore == nil || fixture.AwayScore == nil {
		return nil
	}
	if err := s.applyResult(ctx, exec, fixture, +1); err != nil {
		return err
	}
	if err := s.fixtureRepo.SetStandingsApplied(ctx, exec, fixture.ID, true); err != nil {
		return err
	}
	fixture.StandingsApplied = true
	return nil
}

func (s *standingService) RevertFixture(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture) error {
	if !fixture.StandingsApplied {
		return nil
	}
	if err := s.applyResult(ctx, exec, fixture, -1); err != nil {
		return err
	}
	if err := s.fixtureRepo.SetStandingsApplied(ctx, exec, fixture.ID, false); err != nil {
		return err
	}
	fixture.StandingsApplied = false
	return nil
}

func (s *standingService) applyResult(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, d int) error {
	homeDeltas, awayDeltas := computeStandingDeltas(fixture)
	if d < 0 {
		homeDeltas = homeDeltas.Negated()
		awayDeltas = awayDeltas.Negated()
	}

	for _, target := range []struct {
		teamID int
		deltas repositories.StandingDeltas
	}{
		{fixture.HomeTeamID, homeDeltas},
		{fixture.AwayTeamID, awayDeltas},
	} {
		if _, err := s.standingRepo.GetOrCreate(ctx, exec, fixture.TournamentID, target.teamID); err != nil {
			return fmt.Errorf("failed to resolve standing row: %w", err)
		}
		if err := s.standingRepo.ApplyDeltas(ctx, exec, fixture.TournamentID, target.teamID, target.deltas); err != nil {
			return fmt.Errorf("failed to apply standing deltas: %w", err)
		}
	}

	players, err := s.playerStatsRepo.ListByFixture(ctx, exec, fixture.ID)
	if err != nil {
		return err
	}
	if err := s.adjustMatchCounters(ctx, exec, fixture, players, d); err != nil {
		return err
	}
	return s.adjustCleanSheets(ctx, exec, fixture, players, d)
}

// adjustMatchCounters bumps matches-played for every player named in either
// lineup, on the user and per-tournament levels.
func (s *standingService) adjustMatchCounters(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, players []*models.PlayerStats, d int) error {
	for _, p := range players {
		if err := s.userRepo.AddMatchesPlayed(ctx, exec, p.PlayerID, d); err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return err
		}
		pts := &models.PlayerTournamentStats{PlayerID: p.PlayerID, TournamentID: fixture.TournamentID, JerseyNumber: p.JerseyNumber}
		if err := s.ptsRepo.Upsert(ctx, exec, pts); err != nil {
			return err
		}
		if err := s.ptsRepo.AddMatchesPlayed(ctx, exec, p.PlayerID, fixture.TournamentID, d); err != nil {
			return err
		}
		if p.MinutesPlayed > 0 {
			if err := s.ptsRepo.AddMinutesPlayed(ctx, exec, p.PlayerID, fixture.TournamentID, d*p.MinutesPlayed); err != nil {
				return err
			}
		}
	}
	return nil
}

// adjustCleanSheets credits the keeper of each side that conceded nothing.
func (s *standingService) adjustCleanSheets(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, players []*models.PlayerStats, d int) error {
	hs := derefInt(fixture.HomeScore)
	as := derefInt(fixture.AwayScore)

	for _, side := range []struct {
		teamID   int
		conceded int
	}{
		{fixture.HomeTeamID, as},
		{fixture.AwayTeamID, hs},
	} {
		if side.conceded != 0 {
			continue
		}
		var teamPlayers []*models.PlayerStats
		for _, p := range players {
			if p.TeamID == side.teamID {
				teamPlayers = append(teamPlayers, p)
			}
		}
		keeper := pickCleanSheetKeeper(teamPlayers)
		if keeper == nil {
			continue
		}
		if d > 0 {
			entry := &models.LeaderboardEntry{TournamentID: fixture.TournamentID, PlayerID: keeper.PlayerID, TeamID: keeper.TeamID}
			if err := s.leaderboardRepo.Create(ctx, exec, entry); err != nil {
				return err
			}
		}
		err := s.leaderboardRepo.AddToField(ctx, exec, fixture.TournamentID, keeper.PlayerID, keeper.TeamID, "clean_sheets", d)
		if err != nil && !(d < 0 && errors.Is(err, repositories.ErrLeaderboardEntryNotFound)) {
			return err
		}
	}
	return nil
}

func (s *standingService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error) {
	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, st := range standings {
		if team, errTeam := s.teamRepo.GetByID(ctx, nil, st.TeamID); errTeam == nil {
			populateTeamLogoURL(team, s.uploader)
			st.Team = team
		}
	}
	return standings, nil
}
