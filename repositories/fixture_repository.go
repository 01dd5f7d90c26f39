package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
)

var (
	ErrFixtureNotFound          = errors.New("fixture not found")
	ErrFixtureContainerNotFound = errors.New("fixture container not found")
)

// ScoreSide selects which team's score column an atomic delta targets.
type ScoreSide string

const (
	HomeSide ScoreSide = "home"
	AwaySide ScoreSide = "away"
)

type FixtureUpdate struct {
	Date      *string
	Time      *string
	Venue     *string
	Status    *models.FixtureStatus
	HomeScore *int
	AwayScore *int
}

type FixtureRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Fixture, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Fixture, error)
	ListByContainer(ctx context.Context, exec SQLExecutor, containerID int) ([]*models.Fixture, error)
	Update(ctx context.Context, exec SQLExecutor, id int, upd FixtureUpdate) error
	SetStatus(ctx context.Context, exec SQLExecutor, id int, status models.FixtureStatus) error

	// AddToScore bumps one side's score atomically; a NULL score counts as 0,
	// so the first goal event initializes it.
	AddToScore(ctx context.Context, exec SQLExecutor, id int, side ScoreSide, delta int) error
	AddToPenaltyScore(ctx context.Context, exec SQLExecutor, id int, side ScoreSide, delta int) error
	ResetScore(ctx context.Context, exec SQLExecutor, id int) error
	SetStandingsApplied(ctx context.Context, exec SQLExecutor, id int, applied bool) error

	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByContainerID(ctx context.Context, exec SQLExecutor, containerID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
	CountFullTimeByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)

	CreateContainer(ctx context.Context, exec SQLExecutor, container *models.FixtureContainer) error
	GetContainerByID(ctx context.Context, exec SQLExecutor, id int) (*models.FixtureContainer, error)
	ListContainersByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.FixtureContainer, error)
	DeleteContainersByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const fixtureColumns = `id, tournament_id, container_id, home_team_id, away_team_id, date, time, venue,
	status, home_score, away_score, home_penalty_score, away_penalty_score, standings_applied, created_at`

func (r *postgresFixtureRepository) scanFixture(rowScanner interface{ Scan(...interface{}) error }) (*models.Fixture, error) {
	var f models.Fixture
	err := rowScanner.Scan(
		&f.ID, &f.TournamentID, &f.ContainerID, &f.HomeTeamID, &f.AwayTeamID, &f.Date, &f.Time, &f.Venue,
		&f.Status, &f.HomeScore, &f.AwayScore, &f.HomePenaltyScore, &f.AwayPenaltyScore,
		&f.StandingsApplied, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *postgresFixtureRepository) Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixtures
			(tournament_id, container_id, home_team_id, away_team_id, date, time, venue, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		fixture.TournamentID, fixture.ContainerID, fixture.HomeTeamID, fixture.AwayTeamID,
		fixture.Date, fixture.Time, fixture.Venue, fixture.Status,
	).Scan(&fixture.ID, &fixture.CreatedAt)
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM fixtures WHERE id = $1`, fixtureColumns)
	return r.scanFixture(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresFixtureRepository) list(ctx context.Context, executor SQLExecutor, where string, args ...interface{}) ([]*models.Fixture, error) {
	query := fmt.Sprintf(`SELECT %s FROM fixtures %s ORDER BY date ASC, id ASC`, fixtureColumns, where)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixtures := make([]*models.Fixture, 0)
	for rows.Next() {
		f, errScan := r.scanFixture(rows)
		if errScan != nil {
			return nil, errScan
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

func (r *postgresFixtureRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Fixture, error) {
	return r.list(ctx, r.getExecutor(exec), "")
}

func (r *postgresFixtureRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Fixture, error) {
	return r.list(ctx, r.getExecutor(exec), "WHERE tournament_id = $1", tournamentID)
}

func (r *postgresFixtureRepository) ListByContainer(ctx context.Context, exec SQLExecutor, containerID int) ([]*models.Fixture, error) {
	return r.list(ctx, r.getExecutor(exec), "WHERE container_id = $1", containerID)
}

func (r *postgresFixtureRepository) Update(ctx context.Context, exec SQLExecutor, id int, upd FixtureUpdate) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE fixtures SET
			date = COALESCE($1::timestamptz, date),
			time = COALESCE($2, time),
			venue = COALESCE($3, venue),
			status = COALESCE($4, status),
			home_score = COALESCE($5, home_score),
			away_score = COALESCE($6, away_score)
		WHERE id = $7`
	result, err := executor.ExecContext(ctx, query,
		upd.Date, upd.Time, upd.Venue, upd.Status, upd.HomeScore, upd.AwayScore, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) SetStatus(ctx context.Context, exec SQLExecutor, id int, status models.FixtureStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE fixtures SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) scoreColumn(side ScoreSide, penalty bool) string {
	col := "home"
	if side == AwaySide {
		col = "away"
	}
	if penalty {
		return col + "_penalty_score"
	}
	return col + "_score"
}

func (r *postgresFixtureRepository) AddToScore(ctx context.Context, exec SQLExecutor, id int, side ScoreSide, delta int) error {
	executor := r.getExecutor(exec)
	col := r.scoreColumn(side, false)
	query := fmt.Sprintf(`UPDATE fixtures SET %s = GREATEST(COALESCE(%s, 0) + $1, 0) WHERE id = $2`, col, col)
	result, err := executor.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) AddToPenaltyScore(ctx context.Context, exec SQLExecutor, id int, side ScoreSide, delta int) error {
	executor := r.getExecutor(exec)
	col := r.scoreColumn(side, true)
	query := fmt.Sprintf(`UPDATE fixtures SET %s = GREATEST(%s + $1, 0) WHERE id = $2`, col, col)
	result, err := executor.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) ResetScore(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE fixtures SET home_score = 0, away_score = 0, home_penalty_score = 0, away_penalty_score = 0 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) SetStandingsApplied(ctx context.Context, exec SQLExecutor, id int, applied bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE fixtures SET standings_applied = $1 WHERE id = $2`, applied, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM fixtures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) DeleteByContainerID(ctx context.Context, exec SQLExecutor, containerID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM fixtures WHERE container_id = $1`, containerID)
	return err
}

func (r *postgresFixtureRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM fixtures WHERE tournament_id = $1`, tournamentID)
	return err
}

func (r *postgresFixtureRepository) CountFullTimeByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fixtures WHERE tournament_id = $1 AND status = $2`,
		tournamentID, models.FixtureFullTime,
	).Scan(&count)
	return count, err
}

func (r *postgresFixtureRepository) CreateContainer(ctx context.Context, exec SQLExecutor, container *models.FixtureContainer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixture_containers (tournament_id, match_type)
		VALUES ($1, $2)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query, container.TournamentID, container.MatchType).
		Scan(&container.ID, &container.CreatedAt)
}

func (r *postgresFixtureRepository) GetContainerByID(ctx context.Context, exec SQLExecutor, id int) (*models.FixtureContainer, error) {
	executor := r.getExecutor(exec)
	var c models.FixtureContainer
	err := executor.QueryRowContext(ctx,
		`SELECT id, tournament_id, match_type, created_at FROM fixture_containers WHERE id = $1`, id,
	).Scan(&c.ID, &c.TournamentID, &c.MatchType, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureContainerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresFixtureRepository) ListContainersByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.FixtureContainer, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT id, tournament_id, match_type, created_at FROM fixture_containers WHERE tournament_id = $1 ORDER BY created_at ASC`,
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	containers := make([]*models.FixtureContainer, 0)
	for rows.Next() {
		var c models.FixtureContainer
		if err := rows.Scan(&c.ID, &c.TournamentID, &c.MatchType, &c.CreatedAt); err != nil {
			return nil, err
		}
		containers = append(containers, &c)
	}
	return containers, rows.Err()
}

func (r *postgresFixtureRepository) DeleteContainersByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM fixture_containers WHERE tournament_id = $1`, tournamentID)
	return err
}
