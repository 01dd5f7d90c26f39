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

type CreateTeamInput struct {
	Name      string `json:"name"`
	CaptainID *int   `json:"captain_id"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, userID int) error
	RemoveMember(ctx context.Context, teamID, userID int) error
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	db       *sql.DB
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{db: db, teamRepo: teamRepo, userRepo: userRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}

	team := &models.Team{Name: input.Name, CaptainID: input.CaptainID}
	err := runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, tx, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNameConflict) {
				return ErrTeamNameConflict
			}
			return err
		}
		if input.CaptainID != nil {
			return s.assignUserToTeam(ctx, tx, *input.CaptainID, team.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	members, err := s.userRepo.ListByTeam(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	for _, m := range members {
		populateUserDetails(m, s.uploader)
	}
	team.Members = members

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		populateTeamLogoURL(t, s.uploader)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, team *models.Team) (*models.Team, error) {
	if strings.TrimSpace(team.Name) == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, err
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	return runInTx(ctx, s.db, func(tx repositories.SQLExecutor) error {
		memberIDs, err := s.teamRepo.ListMemberIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, userID := range memberIDs {
			if err := s.detachUserFromTeam(ctx, tx, userID); err != nil {
				return err
			}
		}
		if err := s.teamRepo.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		return nil
	})
}

func (s *teamService) AddMember(ctx context.Context, teamID, userID int) error {
	if _, err := s.teamRepo.GetByID(ctx, nil, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return s.assignUserToTeam(ctx, nil, userID, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID int) error {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return fmt.Errorf("%w: user is not a member of this team", ErrValidationFailed)
	}
	return s.detachUserFromTeam(ctx, nil, userID)
}

func (s *teamService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("teams/%d/logo_%d%s", id, time.Now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	team.LogoKey = &result.Key
	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		return nil, fmt.Errorf("failed to persist logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) assignUserToTeam(ctx context.Context, exec repositories.SQLExecutor, userID, teamID int) error {
	user, err := s.userRepo.GetByID(ctx, exec, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.TeamID != nil && *user.TeamID != teamID {
		return ErrUserAlreadyInTeam
	}
	user.TeamID = &teamID
	return s.userRepo.Update(ctx, exec, user)
}

func (s *teamService) detachUserFromTeam(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	user, err := s.userRepo.GetByID(ctx, exec, userID)
	if err != nil {
		return err
	}
	user.TeamID = nil
	return s.userRepo.Update(ctx, exec, user)
}
