package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/matchday-system/models"
)

var ErrStandingNotFound = errors.New("standing not found")

// StandingDeltas carries signed adjustments for one team's standing row.
// Reverting a result is applying the same deltas negated.
type StandingDeltas struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

func (d StandingDeltas) Negated() StandingDeltas {
	return StandingDeltas{
		Played:       -d.Played,
		Won:          -d.Won,
		Drawn:        -d.Drawn,
		Lost:         -d.Lost,
		GoalsFor:     -d.GoalsFor,
		GoalsAgainst: -d.GoalsAgainst,
		Points:       -d.Points,
	}
}

type StandingRepository interface {
	GetByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentStanding, error)
	Create(ctx context.Context, exec SQLExecutor, standing *models.TournamentStanding) error
	GetOrCreate(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentStanding, error)
	ApplyDeltas(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, deltas StandingDeltas) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentStanding, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const standingColumns = `id, tournament_id, team_id, played, won, drawn, lost,
	goals_for, goals_against, goal_difference, points, updated_at`

func (r *postgresStandingRepository) scanStanding(rowScanner interface{ Scan(...interface{}) error }) (*models.TournamentStanding, error) {
	var s models.TournamentStanding
	err := rowScanner.Scan(
		&s.ID, &s.TournamentID, &s.TeamID, &s.Played, &s.Won, &s.Drawn, &s.Lost,
		&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresStandingRepository) GetByTournamentAndTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentStanding, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + standingColumns + ` FROM tournament_standings WHERE tournament_id = $1 AND team_id = $2`
	return r.scanStanding(executor.QueryRowContext(ctx, query, tournamentID, teamID))
}

func (r *postgresStandingRepository) Create(ctx context.Context, exec SQLExecutor, standing *models.TournamentStanding) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_standings (tournament_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (tournament_id, team_id) DO NOTHING
		RETURNING id, updated_at`
	err := executor.QueryRowContext(ctx, query, standing.TournamentID, standing.TeamID).
		Scan(&standing.ID, &standing.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Row already existed; the conflict clause suppressed RETURNING.
		existing, errGet := r.GetByTournamentAndTeam(ctx, exec, standing.TournamentID, standing.TeamID)
		if errGet != nil {
			return errGet
		}
		*standing = *existing
		return nil
	}
	return err
}

func (r *postgresStandingRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TournamentStanding, error) {
	standing, err := r.GetByTournamentAndTeam(ctx, exec, tournamentID, teamID)
	if err == nil {
		return standing, nil
	}
	if !errors.Is(err, ErrStandingNotFound) {
		return nil, err
	}
	created := &models.TournamentStanding{TournamentID: tournamentID, TeamID: teamID}
	if err := r.Create(ctx, exec, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresStandingRepository) ApplyDeltas(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, deltas StandingDeltas) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournament_standings SET
			played        = GREATEST(played + $1, 0),
			won           = GREATEST(won + $2, 0),
			drawn         = GREATEST(drawn + $3, 0),
			lost          = GREATEST(lost + $4, 0),
			goals_for     = GREATEST(goals_for + $5, 0),
			goals_against = GREATEST(goals_against + $6, 0),
			goal_difference = goal_difference + $5 - $6,
			points        = GREATEST(points + $7, 0),
			updated_at    = NOW()
		WHERE tournament_id = $8 AND team_id = $9`
	result, err := executor.ExecContext(ctx, query,
		deltas.Played, deltas.Won, deltas.Drawn, deltas.Lost,
		deltas.GoalsFor, deltas.GoalsAgainst, deltas.Points,
		tournamentID, teamID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.TournamentStanding, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + standingColumns + `
		FROM tournament_standings
		WHERE tournament_id = $1
		ORDER BY points DESC, goal_difference DESC, goals_for DESC, team_id`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.TournamentStanding, 0)
	for rows.Next() {
		s, errScan := r.scanStanding(rows)
		if errScan != nil {
			return nil, errScan
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tournament_standings WHERE tournament_id = $1`, tournamentID)
	return err
}
