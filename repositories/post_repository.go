package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-system/models"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	Create(ctx context.Context, exec SQLExecutor, post *models.Post) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Post, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Post, error)
	Update(ctx context.Context, exec SQLExecutor, post *models.Post) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPostRepository struct {
	db *sql.DB
}

func NewPostgresPostRepository(db *sql.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

func (r *postgresPostRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPostRepository) scanPost(rowScanner interface{ Scan(...interface{}) error }) (*models.Post, error) {
	var p models.Post
	err := rowScanner.Scan(&p.ID, &p.TournamentID, &p.AuthorID, &p.Content, &p.ImageKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPostRepository) Create(ctx context.Context, exec SQLExecutor, post *models.Post) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO posts (tournament_id, author_id, content, image_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		post.TournamentID, post.AuthorID, post.Content, post.ImageKey,
	).Scan(&post.ID, &post.CreatedAt)
}

func (r *postgresPostRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Post, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, tournament_id, author_id, content, image_key, created_at FROM posts WHERE id = $1`
	return r.scanPost(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPostRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Post, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, tournament_id, author_id, content, image_key, created_at FROM posts WHERE tournament_id = $1 ORDER BY created_at DESC`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		p, errScan := r.scanPost(rows)
		if errScan != nil {
			return nil, errScan
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postgresPostRepository) Update(ctx context.Context, exec SQLExecutor, post *models.Post) error {
	executor := r.getExecutor(exec)
	query := `UPDATE posts SET content = $1, image_key = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, post.Content, post.ImageKey, post.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPostNotFound)
}

func (r *postgresPostRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPostNotFound)
}

func (r *postgresPostRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM posts WHERE tournament_id = $1`, tournamentID)
	return err
}
