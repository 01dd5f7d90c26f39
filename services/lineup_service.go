package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
)

type LineupPlayerInput struct {
	PlayerID     int                   `json:"player_id"`
	Position     models.PlayerPosition `json:"position"`
	IsStarting   bool                  `json:"is_starting"`
	JerseyNumber *int                  `json:"jersey_number"`
}

type LineupService interface {
	// SetLineup creates or replaces a team's lineup for a fixture. Players
	// kept across the call retain their per-fixture stats rows, so event
	// aggregates recorded earlier survive roster tweaks.
	SetLineup(ctx context.Context, requesterID, fixtureID, teamID int, players []LineupPlayerInput) (*models.Lineup, error)
	AddPlayer(ctx context.Context, requesterID, fixtureID, teamID int, player LineupPlayerInput) (*models.PlayerStats, error)
	RemovePlayer(ctx context.Context, requesterID, fixtureID, teamID, playerID int) error
	ListByFixture(ctx context.Context, fixtureID int) ([]*models.Lineup, error)
}

type lineupService struct {
	db             *sql.DB
	lineupRepo     repositories.LineupRepository
	statsRepo      repositories.PlayerStatsRepository
	ptsRepo        repositories.PlayerTournamentStatsRepository
	fixtureRepo    repositories.FixtureRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	uploader       storage.FileUploader
}

func NewLineupService(
	db *sql.DB,
	lineupRepo repositories.LineupRepository,
	statsRepo repositories.PlayerStatsRepository,
	ptsRepo repositories.PlayerTournamentStatsRepository,
	fixtureRepo repositories.FixtureRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) LineupService {
	return &lineupService{
		db:             db,
		lineupRepo:     lineupRepo,
		statsRepo:      statsRepo,
		ptsRepo:        ptsRepo,
		fixtureRepo:    fixtureRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		uploader:       uploader,
	}
}

func (s *lineupService) loadFixtureForTeam(ctx context.Context, requesterID, fixtureID, teamID int) (*models.Fixture, error) {
	fixture, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, fixture.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.AdminID != requesterID {
		return nil, ErrTournamentAdminOnly
	}
	if teamID != fixture.HomeTeamID && teamID != fixture.AwayTeamID {
		return nil, ErrLineupTeamNotInFixture
	}
	return fixture, nil
}

// validatePlayer checks team membership and that the player is not already
// named in the opposing lineup of the same fixture.
func (s *lineupService) validatePlayer(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture, teamID, playerID int) error {
	user, err := s.userRepo.GetByID(ctx, exec, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return ErrPlayerNotInTeam
	}

	existing, err := s.statsRepo.FindByPlayerAndFixture(ctx, exec, playerID, fixture.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return nil
		}
		return err
	}
	if existing.TeamID != teamID {
		return ErrPlayerInBothLineups
	}
	return nil
}

// claimJersey enforces jersey uniqueness per (tournament, player) and records
// the number on the player's tournament stats.
func (s *lineupService) claimJersey(ctx context.Context, exec repositories.SQLExecutor, tournamentID, playerID int, jersey *int) error {
	if jersey == nil {
		return nil
	}
	holder, err := s.ptsRepo.FindJerseyHolder(ctx, exec, tournamentID, *jersey)
	if err != nil && !errors.Is(err, repositories.ErrPlayerTournamentStatsNotFound) {
		return err
	}
	if holder != nil && holder.PlayerID != playerID {
		return ErrJerseyNumberTaken
	}
	pts := &models.PlayerTournamentStats{PlayerID: playerID, TournamentID: tournamentID, JerseyNumber: jersey}
	if err := s.ptsRepo.Upsert(ctx, exec, pts); err != nil {
		return err
	}
	return nil
}

func (s *lineupService) SetLineup(ctx context.Context, requesterID, fixtureID, teamID int, players []LineupPlayerInput) (*models.Lineup, error) {
	fixture, err := s.loadFixtureForTeam(ctx, requesterID, fixtureID, teamID)
	if err != nil {
		return nil, err
	}
	if len(players) > models.MaxLineupSize {
		return nil, ErrLineupTooLarge
	}
	seen := make(map[int]bool, len(players))
	for _, p := range players {
		if seen[p.PlayerID] {
			return nil, fmt.Errorf("%w: player %d listed twice", ErrValidationFailed, p.PlayerID)
		}
		seen[p.PlayerID] = true
	}

	var lineup *models.Lineup
	err = runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		lineup, err = s.lineupRepo.FindByFixtureAndTeam(ctx, tx, fixtureID, teamID)
		if err != nil {
			if !errors.Is(err, repositories.ErrLineupNotFound) {
				return err
			}
			lineup = &models.Lineup{FixtureID: fixtureID, TeamID: teamID}
			if err := s.lineupRepo.Create(ctx, tx, lineup); err != nil {
				return err
			}
		}

		existing, err := s.statsRepo.ListByLineup(ctx, tx, lineup.ID)
		if err != nil {
			return err
		}
		current := make(map[int]*models.PlayerStats, len(existing))
		for _, row := range existing {
			current[row.PlayerID] = row
		}

		for _, p := range players {
			if err := s.validatePlayer(ctx, tx, fixture, teamID, p.PlayerID); err != nil {
				return err
			}
			if err := s.claimJersey(ctx, tx, fixture.TournamentID, p.PlayerID, p.JerseyNumber); err != nil {
				return err
			}
			if row, ok := current[p.PlayerID]; ok {
				// Retained player: refresh the position, keep the stats row
				// and its on-field state untouched.
				if row.Position != p.Position {
					if err := s.statsRepo.SetPosition(ctx, tx, row.ID, p.Position); err != nil {
						return err
					}
				}
				delete(current, p.PlayerID)
				continue
			}
			stats := &models.PlayerStats{
				LineupID:     lineup.ID,
				PlayerID:     p.PlayerID,
				TournamentID: fixture.TournamentID,
				Position:     p.Position,
				IsStarting:   p.IsStarting,
				IsOnField:    true,
				JerseyNumber: p.JerseyNumber,
			}
			if err := s.statsRepo.Create(ctx, tx, stats); err != nil {
				return err
			}
		}

		// Whatever is left in current was dropped from the roster.
		for _, row := range current {
			if err := s.statsRepo.Delete(ctx, tx, row.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lineups, err := s.ListByFixture(ctx, fixtureID)
	if err != nil {
		return nil, err
	}
	for _, l := range lineups {
		if l.ID == lineup.ID {
			return l, nil
		}
	}
	return lineup, nil
}

func (s *lineupService) AddPlayer(ctx context.Context, requesterID, fixtureID, teamID int, player LineupPlayerInput) (*models.PlayerStats, error) {
	fixture, err := s.loadFixtureForTeam(ctx, requesterID, fixtureID, teamID)
	if err != nil {
		return nil, err
	}

	var stats *models.PlayerStats
	err = runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		lineup, err := s.lineupRepo.FindByFixtureAndTeam(ctx, tx, fixtureID, teamID)
		if err != nil {
			if !errors.Is(err, repositories.ErrLineupNotFound) {
				return err
			}
			lineup = &models.Lineup{FixtureID: fixtureID, TeamID: teamID}
			if err := s.lineupRepo.Create(ctx, tx, lineup); err != nil {
				return err
			}
		}

		existing, err := s.statsRepo.ListByLineup(ctx, tx, lineup.ID)
		if err != nil {
			return err
		}
		if len(existing) >= models.MaxLineupSize {
			return ErrLineupTooLarge
		}
		for _, row := range existing {
			if row.PlayerID == player.PlayerID {
				return fmt.Errorf("%w: player already in lineup", ErrValidationFailed)
			}
		}

		if err := s.validatePlayer(ctx, tx, fixture, teamID, player.PlayerID); err != nil {
			return err
		}
		if err := s.claimJersey(ctx, tx, fixture.TournamentID, player.PlayerID, player.JerseyNumber); err != nil {
			return err
		}

		stats = &models.PlayerStats{
			LineupID:     lineup.ID,
			PlayerID:     player.PlayerID,
			TournamentID: fixture.TournamentID,
			Position:     player.Position,
			IsStarting:   player.IsStarting,
			IsOnField:    true,
			JerseyNumber: player.JerseyNumber,
		}
		return s.statsRepo.Create(ctx, tx, stats)
	})
	if err != nil {
		return nil, err
	}
	stats.TeamID = teamID
	return stats, nil
}

func (s *lineupService) RemovePlayer(ctx context.Context, requesterID, fixtureID, teamID, playerID int) error {
	if _, err := s.loadFixtureForTeam(ctx, requesterID, fixtureID, teamID); err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		stats, err := s.statsRepo.FindByPlayerAndFixture(ctx, tx, playerID, fixtureID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
				return ErrPlayerNotInLineup
			}
			return err
		}
		if stats.TeamID != teamID {
			return ErrPlayerNotInLineup
		}
		return s.statsRepo.Delete(ctx, tx, stats.ID)
	})
}

func (s *lineupService) ListByFixture(ctx context.Context, fixtureID int) ([]*models.Lineup, error) {
	if _, err := s.fixtureRepo.GetByID(ctx, nil, fixtureID); err != nil {
		if errors.Is(err, repositories.ErrFixtureNotFound) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	lineups, err := s.lineupRepo.ListByFixture(ctx, nil, fixtureID)
	if err != nil {
		return nil, err
	}
	for _, lineup := range lineups {
		players, errList := s.statsRepo.ListByLineup(ctx, nil, lineup.ID)
		if errList != nil {
			return nil, errList
		}
		for _, p := range players {
			if user, errUser := s.userRepo.GetByID(ctx, nil, p.PlayerID); errUser == nil {
				populateUserDetails(user, s.uploader)
				p.Player = user
			}
		}
		lineup.Players = players
	}
	return lineups, nil
}
