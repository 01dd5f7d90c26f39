package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-system/models"
)

var ErrPlayerTournamentStatsNotFound = errors.New("player tournament stats not found")

type PlayerTournamentStatsRepository interface {
	GetByPlayerAndTournament(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (*models.PlayerTournamentStats, error)
	Upsert(ctx context.Context, exec SQLExecutor, stats *models.PlayerTournamentStats) error
	AddMatchesPlayed(ctx context.Context, exec SQLExecutor, playerID, tournamentID, delta int) error
	AddMinutesPlayed(ctx context.Context, exec SQLExecutor, playerID, tournamentID, delta int) error
	SetJerseyNumber(ctx context.Context, exec SQLExecutor, playerID, tournamentID int, jersey *int) error

	// FindJerseyHolder returns the player currently holding a jersey number
	// inside a tournament, or ErrPlayerTournamentStatsNotFound.
	FindJerseyHolder(ctx context.Context, exec SQLExecutor, tournamentID, jersey int) (*models.PlayerTournamentStats, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPlayerTournamentStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerTournamentStatsRepository(db *sql.DB) PlayerTournamentStatsRepository {
	return &postgresPlayerTournamentStatsRepository{db: db}
}

func (r *postgresPlayerTournamentStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerTournamentStatsRepository) scanStats(rowScanner interface{ Scan(...interface{}) error }) (*models.PlayerTournamentStats, error) {
	var s models.PlayerTournamentStats
	err := rowScanner.Scan(&s.ID, &s.PlayerID, &s.TournamentID, &s.MatchesPlayed, &s.MinutesPlayed, &s.JerseyNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerTournamentStatsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresPlayerTournamentStatsRepository) GetByPlayerAndTournament(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (*models.PlayerTournamentStats, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, player_id, tournament_id, matches_played, minutes_played, jersey_number
		FROM player_tournament_stats
		WHERE player_id = $1 AND tournament_id = $2`
	return r.scanStats(executor.QueryRowContext(ctx, query, playerID, tournamentID))
}

func (r *postgresPlayerTournamentStatsRepository) Upsert(ctx context.Context, exec SQLExecutor, stats *models.PlayerTournamentStats) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_tournament_stats (player_id, tournament_id, matches_played, minutes_played, jersey_number)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, tournament_id)
		DO UPDATE SET jersey_number = EXCLUDED.jersey_number
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		stats.PlayerID, stats.TournamentID, stats.MatchesPlayed, stats.MinutesPlayed, stats.JerseyNumber,
	).Scan(&stats.ID)
}

func (r *postgresPlayerTournamentStatsRepository) AddMatchesPlayed(ctx context.Context, exec SQLExecutor, playerID, tournamentID, delta int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE player_tournament_stats
		SET matches_played = GREATEST(matches_played + $1, 0)
		WHERE player_id = $2 AND tournament_id = $3`
	result, err := executor.ExecContext(ctx, query, delta, playerID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerTournamentStatsNotFound)
}

func (r *postgresPlayerTournamentStatsRepository) AddMinutesPlayed(ctx context.Context, exec SQLExecutor, playerID, tournamentID, delta int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE player_tournament_stats
		SET minutes_played = GREATEST(minutes_played + $1, 0)
		WHERE player_id = $2 AND tournament_id = $3`
	result, err := executor.ExecContext(ctx, query, delta, playerID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerTournamentStatsNotFound)
}

func (r *postgresPlayerTournamentStatsRepository) SetJerseyNumber(ctx context.Context, exec SQLExecutor, playerID, tournamentID int, jersey *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE player_tournament_stats
		SET jersey_number = $1
		WHERE player_id = $2 AND tournament_id = $3`
	result, err := executor.ExecContext(ctx, query, jersey, playerID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerTournamentStatsNotFound)
}

func (r *postgresPlayerTournamentStatsRepository) FindJerseyHolder(ctx context.Context, exec SQLExecutor, tournamentID, jersey int) (*models.PlayerTournamentStats, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, player_id, tournament_id, matches_played, minutes_played, jersey_number
		FROM player_tournament_stats
		WHERE tournament_id = $1 AND jersey_number = $2`
	return r.scanStats(executor.QueryRowContext(ctx, query, tournamentID, jersey))
}

func (r *postgresPlayerTournamentStatsRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM player_tournament_stats WHERE tournament_id = $1`, tournamentID)
	return err
}
