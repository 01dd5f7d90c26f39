package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
	"github.com/Dosada05/matchday-system/storage"
)

type CreatePostInput struct {
	TournamentID int    `json:"tournament_id"`
	Content      string `json:"content"`
}

type PostService interface {
	Create(ctx context.Context, authorID int, input CreatePostInput) (*models.Post, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Post, error)
	Update(ctx context.Context, requesterID, id int, content string) (*models.Post, error)
	Delete(ctx context.Context, requesterID, id int) error
	UploadImage(ctx context.Context, requesterID, id int, contentType string, reader io.Reader) (*models.Post, error)
}

type postService struct {
	postRepo       repositories.PostRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
	uploader       storage.FileUploader
}

func NewPostService(
	postRepo repositories.PostRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) PostService {
	return &postService{
		postRepo:       postRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
		uploader:       uploader,
	}
}

func (s *postService) Create(ctx context.Context, authorID int, input CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrPostContentRequired
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.AdminID != authorID {
		return nil, ErrTournamentAdminOnly
	}

	post := &models.Post{
		TournamentID: input.TournamentID,
		AuthorID:     authorID,
		Content:      input.Content,
	}
	if err := s.postRepo.Create(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.decorate(ctx, post)
	return post, nil
}

func (s *postService) GetByID(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.decorate(ctx, post)
	return post, nil
}

func (s *postService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		s.decorate(ctx, p)
	}
	return posts, nil
}

func (s *postService) Update(ctx context.Context, requesterID, id int, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrPostContentRequired
	}
	post, err := s.loadOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	post.Content = content
	if err := s.postRepo.Update(ctx, nil, post); err != nil {
		return nil, err
	}
	s.decorate(ctx, post)
	return post, nil
}

func (s *postService) Delete(ctx context.Context, requesterID, id int) error {
	post, err := s.loadOwned(ctx, requesterID, id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	if post.ImageKey != nil && *post.ImageKey != "" {
		_ = s.uploader.Delete(ctx, *post.ImageKey)
	}
	return nil
}

func (s *postService) UploadImage(ctx context.Context, requesterID, id int, contentType string, reader io.Reader) (*models.Post, error) {
	post, err := s.loadOwned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("posts/%d/image_%d%s", id, time.Now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload post image: %w", err)
	}

	oldKey := post.ImageKey
	post.ImageKey = &result.Key
	if err := s.postRepo.Update(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("failed to persist image key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	s.decorate(ctx, post)
	return post, nil
}

func (s *postService) loadOwned(ctx context.Context, requesterID, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, ErrForbiddenOperation
	}
	return post, nil
}

func (s *postService) decorate(ctx context.Context, post *models.Post) {
	if post.ImageKey != nil && *post.ImageKey != "" && s.uploader != nil {
		url := s.uploader.GetPublicURL(*post.ImageKey)
		if url != "" {
			post.ImageURL = &url
		}
	}
	if author, err := s.userRepo.GetByID(ctx, nil, post.AuthorID); err == nil {
		populateUserDetails(author, s.uploader)
		post.Author = author
	}
}
