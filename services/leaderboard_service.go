package services

import (
	"context"
	"errors"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
	"golang.org/x/sync/errgroup"
)

// TournamentAwards bundles the headline individual awards of a tournament.
type TournamentAwards struct {
	GoldenBoot  *models.LeaderboardEntry `json:"golden_boot,omitempty"`
	Playmaker   *models.LeaderboardEntry `json:"playmaker,omitempty"`
	GoldenGlove *models.LeaderboardEntry `json:"golden_glove,omitempty"`
}

type LeaderboardService interface {
	TopScorers(ctx context.Context, tournamentID, limit int) ([]*models.LeaderboardEntry, error)
	TopAssists(ctx context.Context, tournamentID, limit int) ([]*models.LeaderboardEntry, error)
	TopSaves(ctx context.Context, tournamentID, limit int) ([]*models.LeaderboardEntry, error)
	TopByField(ctx context.Context, tournamentID int, field string, limit int) ([]*models.LeaderboardEntry, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.LeaderboardEntry, error)
	Awards(ctx context.Context, tournamentID int) (*TournamentAwards, error)
}

type leaderboardService struct {
	leaderboardRepo repositories.LeaderboardRepository
	userRepo        repositories.UserRepository
	teamRepo        repositories.TeamRepository
	uploader        storage.FileUploader
}

func NewLeaderboardService(
	leaderboardRepo repositories.LeaderboardRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		uploader:        uploader,
	}
}

func (s *leaderboardService) TopScorers(ctx context.Context, tournamentID, limit int) ([]*models.LeaderboardEntry, error) {
	return s.TopByField(ctx, tournamentID, "goals", limit)
}

func (s *leaderboardService) TopAssists(ctx context.Context, tournamentID, limit int) ([]*models.LeaderboardEntry, error) {
	return s.TopByField(ctx, tournamentID, "assists", limit)
}

func (s *leaderboardService) TopSaves(ctx context.Context, tournamentID, limit int) ([]*models.LeaderboardEntry, error) {
	return s.TopByField(ctx, tournamentID, "saves", limit)
}

func (s *leaderboardService) TopByField(ctx context.Context, tournamentID int, field string, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	entries, err := s.leaderboardRepo.TopByField(ctx, nil, tournamentID, field, limit)
	if err != nil {
		if errorsIsFieldInvalid(err) {
			return nil, ErrLeaderboardFieldInvalid
		}
		return nil, err
	}
	s.decorate(ctx, entries)
	return entries, nil
}

func (s *leaderboardService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.LeaderboardEntry, error) {
	entries, err := s.leaderboardRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, entries)
	return entries, nil
}

// Awards resolves the three individual awards concurrently.
func (s *leaderboardService) Awards(ctx context.Context, tournamentID int) (*TournamentAwards, error) {
	awards := &TournamentAwards{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		top, err := s.TopByField(gctx, tournamentID, "goals", 1)
		if err != nil {
			return err
		}
		if len(top) > 0 {
			awards.GoldenBoot = top[0]
		}
		return nil
	})
	g.Go(func() error {
		top, err := s.TopByField(gctx, tournamentID, "assists", 1)
		if err != nil {
			return err
		}
		if len(top) > 0 {
			awards.Playmaker = top[0]
		}
		return nil
	})
	g.Go(func() error {
		top, err := s.TopByField(gctx, tournamentID, "clean_sheets", 1)
		if err != nil {
			return err
		}
		if len(top) > 0 {
			awards.GoldenGlove = top[0]
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return awards, nil
}

func (s *leaderboardService) decorate(ctx context.Context, entries []*models.LeaderboardEntry) {
	for _, e := range entries {
		if user, err := s.userRepo.GetByID(ctx, nil, e.PlayerID); err == nil {
			populateUserDetails(user, s.uploader)
			e.Player = user
		}
		if team, err := s.teamRepo.GetByID(ctx, nil, e.TeamID); err == nil {
			populateTeamLogoURL(team, s.uploader)
			e.Team = team
		}
	}
}

func errorsIsFieldInvalid(err error) bool {
	return errors.Is(err, repositories.ErrLeaderboardSortFieldUnknown) || errors.Is(err, repositories.ErrLeaderboardFieldUnknown)
}
