package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-system/models"
)

var ErrLineupNotFound = errors.New("lineup not found")

type LineupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, lineup *models.Lineup) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Lineup, error)
	FindByFixtureAndTeam(ctx context.Context, exec SQLExecutor, fixtureID, teamID int) (*models.Lineup, error)
	ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.Lineup, error)
	DeleteByFixtureID(ctx context.Context, exec SQLExecutor, fixtureID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLineupRepository) scanLineup(rowScanner interface{ Scan(...interface{}) error }) (*models.Lineup, error) {
	var l models.Lineup
	err := rowScanner.Scan(&l.ID, &l.FixtureID, &l.TeamID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLineupNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *postgresLineupRepository) Create(ctx context.Context, exec SQLExecutor, lineup *models.Lineup) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO lineups (fixture_id, team_id)
		VALUES ($1, $2)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query, lineup.FixtureID, lineup.TeamID).
		Scan(&lineup.ID, &lineup.CreatedAt)
}

func (r *postgresLineupRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Lineup, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, fixture_id, team_id, created_at FROM lineups WHERE id = $1`
	return r.scanLineup(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresLineupRepository) FindByFixtureAndTeam(ctx context.Context, exec SQLExecutor, fixtureID, teamID int) (*models.Lineup, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, fixture_id, team_id, created_at FROM lineups WHERE fixture_id = $1 AND team_id = $2`
	return r.scanLineup(executor.QueryRowContext(ctx, query, fixtureID, teamID))
}

func (r *postgresLineupRepository) ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.Lineup, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT id, fixture_id, team_id, created_at FROM lineups WHERE fixture_id = $1 ORDER BY id`, fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lineups := make([]*models.Lineup, 0)
	for rows.Next() {
		l, errScan := r.scanLineup(rows)
		if errScan != nil {
			return nil, errScan
		}
		lineups = append(lineups, l)
	}
	return lineups, rows.Err()
}

func (r *postgresLineupRepository) DeleteByFixtureID(ctx context.Context, exec SQLExecutor, fixtureID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM lineups WHERE fixture_id = $1`, fixtureID)
	return err
}

func (r *postgresLineupRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`DELETE FROM lineups WHERE fixture_id IN (SELECT id FROM fixtures WHERE tournament_id = $1)`, tournamentID)
	return err
}
