package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
)

// statsEngine applies the aggregate side effects of match events. Every
// effect is expressed as a signed delta: recording an event applies it with
// direction +1, deleting the same event applies it with -1, so deletion
// reverses exactly what creation did.
type statsEngine struct {
	fixtureRepo     repositories.FixtureRepository
	playerStatsRepo repositories.PlayerStatsRepository
	leaderboardRepo repositories.LeaderboardRepository
	ptsRepo         repositories.PlayerTournamentStatsRepository
	userRepo        repositories.UserRepository

	// countAllPenaltyAttempts keeps missed and saved attempts on the
	// leaderboard's penaltys column alongside scored ones.
	countAllPenaltyAttempts bool

	effects map[models.MatchEventType]effectFunc
}

type effectFunc func(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error

func newStatsEngine(
	fixtureRepo repositories.FixtureRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	ptsRepo repositories.PlayerTournamentStatsRepository,
	userRepo repositories.UserRepository,
	countAllPenaltyAttempts bool,
) *statsEngine {
	e := &statsEngine{
		fixtureRepo:             fixtureRepo,
		playerStatsRepo:         playerStatsRepo,
		leaderboardRepo:         leaderboardRepo,
		ptsRepo:                 ptsRepo,
		userRepo:                userRepo,
		countAllPenaltyAttempts: countAllPenaltyAttempts,
	}
	e.effects = map[models.MatchEventType]effectFunc{
		models.EventGoal:         e.applyGoal,
		models.EventOwnGoal:      e.applyOwnGoal,
		models.EventAssist:       e.applyAssist,
		models.EventSave:         e.applySave,
		models.EventYellowCard:   e.applyYellowCard,
		models.EventRedCard:      e.applyRedCard,
		models.EventCorner:       e.applyCorner,
		models.EventFoul:         e.applyFoul,
		models.EventPenalty:      e.applyPenalty,
		models.EventSubstitution: e.applySubstitution,
	}
	return e
}

// applyEvent runs the effect registered for the event's type. Types without
// an entry (OFFSIDE) carry no aggregate effects and are stored timeline-only.
func (e *statsEngine) applyEvent(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	fn, ok := e.effects[event.Type]
	if !ok {
		return nil
	}
	return fn(ctx, exec, fixture, event, d)
}

// resolveStats loads the player's per-fixture stats row. A player outside
// both lineups yields (nil, nil): the event stays on the timeline but its
// player aggregates are skipped.
func (e *statsEngine) resolveStats(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent) (*models.PlayerStats, error) {
	if event.PlayerID == nil {
		return nil, nil
	}
	stats, err := e.playerStatsRepo.FindByPlayerAndFixture(ctx, exec, *event.PlayerID, fixture.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return stats, nil
}

func (e *statsEngine) scoreSide(fixture *models.Fixture, teamID int) repositories.ScoreSide {
	if teamID == fixture.HomeTeamID {
		return repositories.HomeSide
	}
	return repositories.AwaySide
}

func (e *statsEngine) opposingSide(side repositories.ScoreSide) repositories.ScoreSide {
	if side == repositories.HomeSide {
		return repositories.AwaySide
	}
	return repositories.HomeSide
}

// bumpLeaderboard adjusts one leaderboard column for a player. On positive
// deltas the entry is created first; on reversal a missing entry is skipped
// rather than treated as an error.
func (e *statsEngine) bumpLeaderboard(ctx context.Context, exec repositories.SQLExecutor, tournamentID, playerID, teamID int, field string, d int) error {
	if d > 0 {
		entry := &models.LeaderboardEntry{TournamentID: tournamentID, PlayerID: playerID, TeamID: teamID}
		if err := e.leaderboardRepo.Create(ctx, exec, entry); err != nil {
			return fmt.Errorf("failed to ensure leaderboard entry: %w", err)
		}
	}
	err := e.leaderboardRepo.AddToField(ctx, exec, tournamentID, playerID, teamID, field, d)
	if err != nil && d < 0 && errors.Is(err, repositories.ErrLeaderboardEntryNotFound) {
		return nil
	}
	return err
}

func (e *statsEngine) applyGoal(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	if err := e.fixtureRepo.AddToScore(ctx, exec, fixture.ID, e.scoreSide(fixture, stats.TeamID), d); err != nil {
		return err
	}
	if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "goals", d); err != nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "goals", d)
}

func (e *statsEngine) applyOwnGoal(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	// An own goal scores for the opposition but is still credited to the
	// player who put the ball in, same as a regular goal.
	side := e.opposingSide(e.scoreSide(fixture, stats.TeamID))
	if err := e.fixtureRepo.AddToScore(ctx, exec, fixture.ID, side, d); err != nil {
		return err
	}
	if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "goals", d); err != nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "goals", d)
}

func (e *statsEngine) applyAssist(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "assists", d); err != nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "assists", d)
}

func (e *statsEngine) applySave(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	if err := e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "saves", d); err != nil {
		return err
	}

	// A save may carry the keeper's minutes played; keep the per-fixture row
	// and the per-tournament total in step so reversal stays exact.
	if event.Metadata == nil {
		return nil
	}
	var meta models.SaveMetadata
	if err := json.Unmarshal([]byte(*event.Metadata), &meta); err != nil {
		return fmt.Errorf("failed to decode save metadata: %w", err)
	}
	if meta.MinutesPlayed == nil {
		return nil
	}
	return e.adjustMinutes(ctx, exec, fixture, stats, d**meta.MinutesPlayed)
}

// adjustMinutes shifts the player's minutes by the signed amount, on the
// fixture row and on the tournament aggregate.
func (e *statsEngine) adjustMinutes(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, stats *models.PlayerStats, amount int) error {
	if amount == 0 {
		return nil
	}
	if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "minutes_played", amount); err != nil {
		return err
	}
	if amount > 0 {
		pts := &models.PlayerTournamentStats{PlayerID: stats.PlayerID, TournamentID: fixture.TournamentID, JerseyNumber: stats.JerseyNumber}
		if err := e.ptsRepo.Upsert(ctx, exec, pts); err != nil {
			return err
		}
	}
	err := e.ptsRepo.AddMinutesPlayed(ctx, exec, stats.PlayerID, fixture.TournamentID, amount)
	if err != nil && amount < 0 && errors.Is(err, repositories.ErrPlayerTournamentStatsNotFound) {
		return nil
	}
	return err
}

func (e *statsEngine) applyYellowCard(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "yellow_cards", d); err != nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "yellow_cards", d)
}

func (e *statsEngine) applyRedCard(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "red_cards", d); err != nil {
		return err
	}
	// A red card sends the player off; reversing it puts them back.
	if err := e.playerStatsRepo.SetOnField(ctx, exec, stats.ID, d < 0); err != nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "red_cards", d)
}

func (e *statsEngine) applyCorner(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "corners", d)
}

func (e *statsEngine) applyFoul(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil || stats == nil {
		return err
	}
	return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, stats.PlayerID, stats.TeamID, "fouls", d)
}

// applyPenalty handles shootout attempts.
func (e *statsEngine) applyPenalty(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	if event.PlayerID == nil || event.PenaltyOutcome == nil {
		return nil
	}
	stats, err := e.resolveStats(ctx, exec, fixture, event)
	if err != nil {
		return err
	}

	// Shootout sides follow team membership, not the lineup: subs who never
	// held a lineup slot still take penalties for their team.
	user, errUser := e.userRepo.GetByID(ctx, exec, *event.PlayerID)
	if errUser != nil && !errors.Is(errUser, repositories.ErrUserNotFound) {
		return errUser
	}
	var teamID int
	switch {
	case errUser == nil && user.TeamID != nil:
		teamID = *user.TeamID
	case stats != nil:
		teamID = stats.TeamID
	default:
		return nil
	}

	scored := *event.PenaltyOutcome == models.PenaltyScored
	if scored {
		if err := e.fixtureRepo.AddToPenaltyScore(ctx, exec, fixture.ID, e.scoreSide(fixture, teamID), d); err != nil {
			return err
		}
		if stats != nil {
			if err := e.playerStatsRepo.AddToField(ctx, exec, stats.ID, "penalty_goals", d); err != nil {
				return err
			}
		}
	}
	if scored || e.countAllPenaltyAttempts {
		return e.bumpLeaderboard(ctx, exec, fixture.TournamentID, *event.PlayerID, teamID, "penaltys", d)
	}
	return nil
}

func (e *statsEngine) applySubstitution(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, event *models.MatchEvent, d int) error {
	if event.Metadata == nil {
		return nil
	}
	var meta models.SubstitutionMetadata
	if err := json.Unmarshal([]byte(*event.Metadata), &meta); err != nil {
		return fmt.Errorf("failed to decode substitution metadata: %w", err)
	}

	off, err := e.playerStatsRepo.FindByPlayerAndFixture(ctx, exec, meta.ReplacedPlayerID, fixture.ID)
	if err != nil && !errors.Is(err, repositories.ErrPlayerStatsNotFound) {
		return err
	}
	on, err := e.playerStatsRepo.FindByPlayerAndFixture(ctx, exec, meta.SubstitutePlayerID, fixture.ID)
	if err != nil && !errors.Is(err, repositories.ErrPlayerStatsNotFound) {
		return err
	}

	if off != nil {
		if err := e.playerStatsRepo.SetOnField(ctx, exec, off.ID, d < 0); err != nil {
			return err
		}
		// The leaving player's minutes equal the substitution minute.
		if event.Minute != nil {
			if err := e.adjustMinutes(ctx, exec, fixture, off, d**event.Minute); err != nil {
				return err
			}
		}
	}
	if on != nil {
		if err := e.playerStatsRepo.SetOnField(ctx, exec, on.ID, d > 0); err != nil {
			return err
		}
		if d > 0 && meta.Position != nil {
			if err := e.playerStatsRepo.SetPosition(ctx, exec, on.ID, models.PlayerPosition(*meta.Position)); err != nil {
				return err
			}
		}
	}
	return nil
}
