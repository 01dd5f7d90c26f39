package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, exec SQLExecutor, user *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	GetByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error)
	Update(ctx context.Context, exec SQLExecutor, user *models.User) error
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.User, error)
	AddMatchesPlayed(ctx context.Context, exec SQLExecutor, id int, delta int) error
	SetPlaying(ctx context.Context, exec SQLExecutor, id int, playing bool) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, first_name, last_name, email, password_hash, role, team_id,
	phone_number, primary_position, preferred_foot, is_playing, matches_played, logo_key, created_at`

func (r *postgresUserRepository) scanUser(rowScanner interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := rowScanner.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID,
		&u.PhoneNumber, &u.PrimaryPosition, &u.PreferredFoot, &u.IsPlaying, &u.MatchesPlayed,
		&u.LogoKey, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, exec SQLExecutor, user *models.User) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, team_id,
			phone_number, primary_position, preferred_foot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, user.TeamID,
		user.PhoneNumber, user.PrimaryPosition, user.PreferredFoot,
	).Scan(&user.ID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrUserEmailConflict
	}
	return err
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanUser(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.User, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanUser(executor.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) Update(ctx context.Context, exec SQLExecutor, user *models.User) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE users SET
			first_name = $1, last_name = $2, team_id = $3, phone_number = $4,
			primary_position = $5, preferred_foot = $6, logo_key = $7
		WHERE id = $8`
	result, err := executor.ExecContext(ctx, query,
		user.FirstName, user.LastName, user.TeamID, user.PhoneNumber,
		user.PrimaryPosition, user.PreferredFoot, user.LogoKey, user.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.User, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE team_id = $1 ORDER BY id`, userColumns)
	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, errScan := r.scanUser(rows)
		if errScan != nil {
			return nil, errScan
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddMatchesPlayed moves the global counter atomically at the field level,
// never read-modify-write, so concurrent lineup edits cannot lose increments.
func (r *postgresUserRepository) AddMatchesPlayed(ctx context.Context, exec SQLExecutor, id int, delta int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE users SET matches_played = GREATEST(matches_played + $1, 0) WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetPlaying(ctx context.Context, exec SQLExecutor, id int, playing bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE users SET is_playing = $1 WHERE id = $2`, playing, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
