package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/matchday-system/models"
)

var (
	ErrLeaderboardEntryNotFound    = errors.New("leaderboard entry not found")
	ErrLeaderboardFieldUnknown     = errors.New("leaderboard field not allowed for atomic update")
	ErrLeaderboardSortFieldUnknown = errors.New("leaderboard field not allowed for sorting")
)

// leaderboardFields whitelists columns for both atomic deltas and TopByField.
var leaderboardFields = map[string]string{
	"goals":        "goals",
	"assists":      "assists",
	"saves":        "saves",
	"clean_sheets": "clean_sheets",
	"yellow_cards": "yellow_cards",
	"red_cards":    "red_cards",
	"corners":      "corners",
	"fouls":        "fouls",
	"penaltys":     "penaltys",
}

type LeaderboardRepository interface {
	GetByKey(ctx context.Context, exec SQLExecutor, tournamentID, playerID, teamID int) (*models.LeaderboardEntry, error)
	Create(ctx context.Context, exec SQLExecutor, entry *models.LeaderboardEntry) error
	AddToField(ctx context.Context, exec SQLExecutor, tournamentID, playerID, teamID int, field string, delta int) error
	TopByField(ctx context.Context, exec SQLExecutor, tournamentID int, field string, limit int) ([]*models.LeaderboardEntry, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.LeaderboardEntry, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const leaderboardColumns = `id, tournament_id, player_id, team_id, goals, assists, saves, clean_sheets,
	yellow_cards, red_cards, corners, fouls, penaltys`

func (r *postgresLeaderboardRepository) scanEntry(rowScanner interface{ Scan(...interface{}) error }) (*models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	err := rowScanner.Scan(
		&e.ID, &e.TournamentID, &e.PlayerID, &e.TeamID, &e.Goals, &e.Assists, &e.Saves, &e.CleanSheets,
		&e.YellowCards, &e.RedCards, &e.Corners, &e.Fouls, &e.Penaltys,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaderboardEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByKey looks up the (tournament, player, team) entry. The key is not
// unique per player: a player who appears for two teams holds two rows.
func (r *postgresLeaderboardRepository) GetByKey(ctx context.Context, exec SQLExecutor, tournamentID, playerID, teamID int) (*models.LeaderboardEntry, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM leaderboard_entries WHERE tournament_id = $1 AND player_id = $2 AND team_id = $3`, leaderboardColumns)
	return r.scanEntry(executor.QueryRowContext(ctx, query, tournamentID, playerID, teamID))
}

func (r *postgresLeaderboardRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.LeaderboardEntry) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO leaderboard_entries (tournament_id, player_id, team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (tournament_id, player_id, team_id) DO UPDATE SET team_id = EXCLUDED.team_id
		RETURNING id`
	return executor.QueryRowContext(ctx, query, entry.TournamentID, entry.PlayerID, entry.TeamID).
		Scan(&entry.ID)
}

func (r *postgresLeaderboardRepository) AddToField(ctx context.Context, exec SQLExecutor, tournamentID, playerID, teamID int, field string, delta int) error {
	col, ok := leaderboardFields[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLeaderboardFieldUnknown, field)
	}
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(
		`UPDATE leaderboard_entries SET %s = GREATEST(%s + $1, 0) WHERE tournament_id = $2 AND player_id = $3 AND team_id = $4`,
		col, col)
	result, err := executor.ExecContext(ctx, query, delta, tournamentID, playerID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeaderboardEntryNotFound)
}

func (r *postgresLeaderboardRepository) TopByField(ctx context.Context, exec SQLExecutor, tournamentID int, field string, limit int) ([]*models.LeaderboardEntry, error) {
	col, ok := leaderboardFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLeaderboardSortFieldUnknown, field)
	}
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT %s FROM leaderboard_entries
		WHERE tournament_id = $1 AND %s > 0
		ORDER BY %s DESC, player_id
		LIMIT $2`, leaderboardColumns, col, col)
	return r.listEntries(ctx, executor, query, tournamentID, limit)
}

func (r *postgresLeaderboardRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.LeaderboardEntry, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT %s FROM leaderboard_entries
		WHERE tournament_id = $1
		ORDER BY goals DESC, assists DESC, player_id`, leaderboardColumns)
	return r.listEntries(ctx, executor, query, tournamentID)
}

func (r *postgresLeaderboardRepository) listEntries(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.LeaderboardEntry, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0)
	for rows.Next() {
		e, errScan := r.scanEntry(rows)
		if errScan != nil {
			return nil, errScan
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresLeaderboardRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM leaderboard_entries WHERE tournament_id = $1`, tournamentID)
	return err
}
