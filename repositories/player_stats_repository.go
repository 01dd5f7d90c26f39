package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
)

var (
	ErrPlayerStatsNotFound     = errors.New("player stats not found")
	ErrPlayerStatsFieldUnknown = errors.New("player stats field not allowed for atomic update")
)

// playerStatsFields whitelists the columns AddToField may touch.
var playerStatsFields = map[string]string{
	"goals":          "goals",
	"assists":        "assists",
	"yellow_cards":   "yellow_cards",
	"red_cards":      "red_cards",
	"penalty_goals":  "penalty_goals",
	"minutes_played": "minutes_played",
}

type PlayerStatsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stats *models.PlayerStats) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PlayerStats, error)

	// FindByPlayerAndFixture resolves the one PlayerStats row a player holds
	// across the fixture's lineups, with the owning lineup's team joined in.
	FindByPlayerAndFixture(ctx context.Context, exec SQLExecutor, playerID, fixtureID int) (*models.PlayerStats, error)
	ListByLineup(ctx context.Context, exec SQLExecutor, lineupID int) ([]*models.PlayerStats, error)
	ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.PlayerStats, error)

	AddToField(ctx context.Context, exec SQLExecutor, id int, field string, delta int) error
	SetOnField(ctx context.Context, exec SQLExecutor, id int, onField bool) error
	SetMinutesPlayed(ctx context.Context, exec SQLExecutor, id int, minutes int) error
	SetPosition(ctx context.Context, exec SQLExecutor, id int, position models.PlayerPosition) error

	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByLineupID(ctx context.Context, exec SQLExecutor, lineupID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPlayerStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatsRepository(db *sql.DB) PlayerStatsRepository {
	return &postgresPlayerStatsRepository{db: db}
}

func (r *postgresPlayerStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerStatsColumns = `ps.id, ps.lineup_id, ps.player_id, ps.tournament_id, ps.position, ps.is_starting,
	ps.is_on_field, ps.jersey_number, ps.minutes_played, ps.goals, ps.assists, ps.yellow_cards,
	ps.red_cards, ps.penalty_goals`

func (r *postgresPlayerStatsRepository) scanStats(rowScanner interface{ Scan(...interface{}) error }, withTeam bool) (*models.PlayerStats, error) {
	var s models.PlayerStats
	dest := []interface{}{
		&s.ID, &s.LineupID, &s.PlayerID, &s.TournamentID, &s.Position, &s.IsStarting,
		&s.IsOnField, &s.JerseyNumber, &s.MinutesPlayed, &s.Goals, &s.Assists, &s.YellowCards,
		&s.RedCards, &s.PenaltyGoals,
	}
	if withTeam {
		dest = append(dest, &s.TeamID)
	}
	if err := rowScanner.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresPlayerStatsRepository) Create(ctx context.Context, exec SQLExecutor, stats *models.PlayerStats) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_stats
			(lineup_id, player_id, tournament_id, position, is_starting, is_on_field, jersey_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		stats.LineupID, stats.PlayerID, stats.TournamentID, stats.Position,
		stats.IsStarting, stats.IsOnField, stats.JerseyNumber,
	).Scan(&stats.ID)
}

func (r *postgresPlayerStatsRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PlayerStats, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT %s, l.team_id
		FROM player_stats ps
		JOIN lineups l ON l.id = ps.lineup_id
		WHERE ps.id = $1`, playerStatsColumns)
	return r.scanStats(executor.QueryRowContext(ctx, query, id), true)
}

func (r *postgresPlayerStatsRepository) FindByPlayerAndFixture(ctx context.Context, exec SQLExecutor, playerID, fixtureID int) (*models.PlayerStats, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT %s, l.team_id
		FROM player_stats ps
		JOIN lineups l ON l.id = ps.lineup_id
		WHERE ps.player_id = $1 AND l.fixture_id = $2`, playerStatsColumns)
	return r.scanStats(executor.QueryRowContext(ctx, query, playerID, fixtureID), true)
}

func (r *postgresPlayerStatsRepository) ListByLineup(ctx context.Context, exec SQLExecutor, lineupID int) ([]*models.PlayerStats, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT %s, l.team_id
		FROM player_stats ps
		JOIN lineups l ON l.id = ps.lineup_id
		WHERE ps.lineup_id = $1
		ORDER BY ps.id`, playerStatsColumns)
	return r.listStats(ctx, executor, query, lineupID)
}

func (r *postgresPlayerStatsRepository) ListByFixture(ctx context.Context, exec SQLExecutor, fixtureID int) ([]*models.PlayerStats, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT %s, l.team_id
		FROM player_stats ps
		JOIN lineups l ON l.id = ps.lineup_id
		WHERE l.fixture_id = $1
		ORDER BY ps.id`, playerStatsColumns)
	return r.listStats(ctx, executor, query, fixtureID)
}

func (r *postgresPlayerStatsRepository) listStats(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.PlayerStats, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*models.PlayerStats, 0)
	for rows.Next() {
		s, errScan := r.scanStats(rows, true)
		if errScan != nil {
			return nil, errScan
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresPlayerStatsRepository) AddToField(ctx context.Context, exec SQLExecutor, id int, field string, delta int) error {
	col, ok := playerStatsFields[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlayerStatsFieldUnknown, field)
	}
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`UPDATE player_stats SET %s = GREATEST(%s + $1, 0) WHERE id = $2`, col, col)
	result, err := executor.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) SetOnField(ctx context.Context, exec SQLExecutor, id int, onField bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE player_stats SET is_on_field = $1 WHERE id = $2`, onField, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) SetMinutesPlayed(ctx context.Context, exec SQLExecutor, id int, minutes int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE player_stats SET minutes_played = $1 WHERE id = $2`, minutes, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) SetPosition(ctx context.Context, exec SQLExecutor, id int, position models.PlayerPosition) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE player_stats SET position = $1 WHERE id = $2`, position, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) DeleteByLineupID(ctx context.Context, exec SQLExecutor, lineupID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE lineup_id = $1`, lineupID)
	return err
}

func (r *postgresPlayerStatsRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE tournament_id = $1`, tournamentID)
	return err
}
