package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-system/models"
)

var ErrMatchEventNotFound = errors.New("match event not found")

type MatchEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchEvent, error)
	ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.MatchEvent, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByFixtureID(ctx context.Context, exec SQLExecutor, fixtureID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchEventRepository struct {
	db *sql.DB
}

func NewPostgresMatchEventRepository(db *sql.DB) MatchEventRepository {
	return &postgresMatchEventRepository{db: db}
}

func (r *postgresMatchEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchEventColumns = `id, fixture_id, type, minute, player_id, penalty_outcome, metadata, created_at`

func (r *postgresMatchEventRepository) scanEvent(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchEvent, error) {
	var e models.MatchEvent
	err := rowScanner.Scan(&e.ID, &e.FixtureID, &e.Type, &e.Minute, &e.PlayerID, &e.PenaltyOutcome, &e.Metadata, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresMatchEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.MatchEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_events (fixture_id, type, minute, player_id, penalty_outcome, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		event.FixtureID, event.Type, event.Minute, event.PlayerID, event.PenaltyOutcome, event.Metadata,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *postgresMatchEventRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchEvent, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchEventColumns + ` FROM match_events WHERE id = $1`
	return r.scanEvent(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchEventRepository) ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.MatchEvent, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchEventColumns + ` FROM match_events WHERE fixture_id = $1 ORDER BY created_at, id`
	rows, err := executor.QueryContext(ctx, query, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		e, errScan := r.scanEvent(rows)
		if errScan != nil {
			return nil, errScan
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresMatchEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM match_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchEventNotFound)
}

func (r *postgresMatchEventRepository) DeleteByFixtureID(ctx context.Context, exec SQLExecutor, fixtureID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_events WHERE fixture_id = $1`, fixtureID)
	return err
}

func (r *postgresMatchEventRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`DELETE FROM match_events WHERE fixture_id IN (SELECT id FROM fixtures WHERE tournament_id = $1)`, tournamentID)
	return err
}
