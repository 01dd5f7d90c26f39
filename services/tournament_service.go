package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
)

type CreateTournamentInput struct {
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type UpdateTournamentInput struct {
	Name      *string                  `json:"name"`
	Status    *models.TournamentStatus `json:"status"`
	StartDate *time.Time               `json:"start_date"`
	EndDate   *time.Time               `json:"end_date"`
}

type TournamentService interface {
	Create(ctx context.Context, adminID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Update(ctx context.Context, requesterID, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, requesterID, id int) error
	AddTeam(ctx context.Context, requesterID, tournamentID, teamID int) error
	RemoveTeam(ctx context.Context, requesterID, tournamentID, teamID int) error
	UploadLogo(ctx context.Context, requesterID, id int, contentType string, reader io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	teamRepo        repositories.TeamRepository
	fixtureRepo     repositories.FixtureRepository
	lineupRepo      repositories.LineupRepository
	playerStatsRepo repositories.PlayerStatsRepository
	ptsRepo         repositories.PlayerTournamentStatsRepository
	standingRepo    repositories.StandingRepository
	leaderboardRepo repositories.LeaderboardRepository
	eventRepo       repositories.MatchEventRepository
	postRepo        repositories.PostRepository
	uploader        storage.FileUploader
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	fixtureRepo repositories.FixtureRepository,
	lineupRepo repositories.LineupRepository,
	playerStatsRepo repositories.PlayerStatsRepository,
	ptsRepo repositories.PlayerTournamentStatsRepository,
	standingRepo repositories.StandingRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	eventRepo repositories.MatchEventRepository,
	postRepo repositories.PostRepository,
	uploader storage.FileUploader,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		teamRepo:        teamRepo,
		fixtureRepo:     fixtureRepo,
		lineupRepo:      lineupRepo,
		playerStatsRepo: playerStatsRepo,
		ptsRepo:         ptsRepo,
		standingRepo:    standingRepo,
		leaderboardRepo: leaderboardRepo,
		eventRepo:       eventRepo,
		postRepo:        postRepo,
		uploader:        uploader,
	}
}

func (s *tournamentService) requireAdmin(ctx context.Context, id, requesterID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
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

func (s *tournamentService) Create(ctx context.Context, adminID int, input CreateTournamentInput) (*models.Tournament, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("%w: end date must not precede start date", ErrValidationFailed)
	}

	tournament := &models.Tournament{
		Name:      input.Name,
		AdminID:   adminID,
		Status:    models.TournamentUpcoming,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	teamIDs, err := s.tournamentRepo.ListTeamIDs(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	for _, teamID := range teamIDs {
		team, errTeam := s.teamRepo.GetByID(ctx, nil, teamID)
		if errTeam != nil {
			continue
		}
		populateTeamLogoURL(team, s.uploader)
		tournament.Teams = append(tournament.Teams, team)
	}

	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		populateTournamentLogoURL(t, s.uploader)
	}
	return tournaments, nil
}

var validTournamentStatuses = map[models.TournamentStatus]bool{
	models.TournamentUpcoming:  true,
	models.TournamentActive:    true,
	models.TournamentCompleted: true,
	models.TournamentCanceled:  true,
}

func (s *tournamentService) Update(ctx context.Context, requesterID, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.requireAdmin(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
		}
		tournament.Name = *input.Name
	}
	if input.Status != nil {
		if !validTournamentStatuses[*input.Status] {
			return nil, fmt.Errorf("%w: unknown tournament status", ErrValidationFailed)
		}
		tournament.Status = *input.Status
	}
	if input.StartDate != nil {
		tournament.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		tournament.EndDate = input.EndDate
	}
	if tournament.StartDate != nil && tournament.EndDate != nil && tournament.EndDate.Before(*tournament.StartDate) {
		return nil, fmt.Errorf("%w: end date must not precede start date", ErrValidationFailed)
	}

	if err := s.tournamentRepo.Update(ctx, nil, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

// Delete removes the tournament and every dependent row in one transaction.
// Child tables go first so no foreign key is left dangling mid-way.
func (s *tournamentService) Delete(ctx context.Context, requesterID, id int) error {
	if _, err := s.requireAdmin(ctx, id, requesterID); err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		if err := s.playerStatsRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.lineupRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.eventRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.ptsRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.standingRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.leaderboardRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.postRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.fixtureRepo.DeleteByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.fixtureRepo.DeleteContainersByTournamentID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.tournamentRepo.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		return nil
	})
}

func (s *tournamentService) AddTeam(ctx context.Context, requesterID, tournamentID, teamID int) error {
	if _, err := s.requireAdmin(ctx, tournamentID, requesterID); err != nil {
		return err
	}
	if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	teamIDs, err := s.tournamentRepo.ListTeamIDs(ctx, nil, tournamentID)
	if err != nil {
		return err
	}
	for _, existing := range teamIDs {
		if existing == teamID {
			return ErrTeamAlreadyRegistered
		}
	}
	return s.tournamentRepo.AddTeam(ctx, nil, tournamentID, teamID)
}

func (s *tournamentService) RemoveTeam(ctx context.Context, requesterID, tournamentID, teamID int) error {
	if _, err := s.requireAdmin(ctx, tournamentID, requesterID); err != nil {
		return err
	}
	return s.tournamentRepo.RemoveTeam(ctx, nil, tournamentID, teamID)
}

func (s *tournamentService) UploadLogo(ctx context.Context, requesterID, id int, contentType string, reader io.Reader) (*models.Tournament, error) {
	tournament, err := s.requireAdmin(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("tournaments/%d/banner_%d%s", id, time.Now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament banner: %w", err)
	}

	oldKey := tournament.LogoKey
	tournament.LogoKey = &result.Key
	if err := s.tournamentRepo.Update(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("failed to persist banner key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}
