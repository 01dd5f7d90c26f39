package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/matchday-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateRef(t time.Time) *time.Time {
	return &t
}

func statusRef(s models.FixtureStatus) *models.FixtureStatus {
	return &s
}

func intRef(v int) *int {
	return &v
}

func strRef(s string) *string {
	return &s
}

func TestCreateFixture(t *testing.T) {
	env := newTestEnv(true)
	env.seedMatch(t)
	ctx := context.Background()
	kickoff := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("date required", func(t *testing.T) {
		_, err := env.fixtureSvc.Create(ctx, adminID, CreateFixtureInput{
			TournamentID: tournamentID, HomeTeamID: homeTeamID, AwayTeamID: awayTeamID,
		})
		assert.ErrorIs(t, err, ErrFixtureDateRequired)
	})
	t.Run("teams must differ", func(t *testing.T) {
		_, err := env.fixtureSvc.Create(ctx, adminID, CreateFixtureInput{
			TournamentID: tournamentID, HomeTeamID: homeTeamID, AwayTeamID: homeTeamID, Date: dateRef(kickoff),
		})
		assert.ErrorIs(t, err, ErrTeamsMustDiffer)
	})
	t.Run("teams must be registered", func(t *testing.T) {
		_, err := env.fixtureSvc.Create(ctx, adminID, CreateFixtureInput{
			TournamentID: tournamentID, HomeTeamID: homeTeamID, AwayTeamID: 999, Date: dateRef(kickoff),
		})
		assert.ErrorIs(t, err, ErrTeamNotInTournament)
	})
	t.Run("admin only", func(t *testing.T) {
		_, err := env.fixtureSvc.Create(ctx, homeForwardID, CreateFixtureInput{
			TournamentID: tournamentID, HomeTeamID: homeTeamID, AwayTeamID: awayTeamID, Date: dateRef(kickoff),
		})
		assert.ErrorIs(t, err, ErrTournamentAdminOnly)
	})
	t.Run("created as scheduled", func(t *testing.T) {
		fixture, err := env.fixtureSvc.Create(ctx, adminID, CreateFixtureInput{
			TournamentID: tournamentID, HomeTeamID: homeTeamID, AwayTeamID: awayTeamID, Date: dateRef(kickoff),
		})
		require.NoError(t, err)
		assert.Equal(t, models.FixtureScheduled, fixture.Status)
		assert.Nil(t, fixture.HomeScore)
		require.NotNil(t, fixture.HomeTeam)
		assert.Equal(t, "North End", fixture.HomeTeam.Name)
	})
}

func TestUpdateFixtureValidation(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	t.Run("unknown status", func(t *testing.T) {
		_, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{Status: statusRef("PAUSED")})
		assert.ErrorIs(t, err, ErrFixtureInvalidStatus)
	})
	t.Run("negative score", func(t *testing.T) {
		_, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{HomeScore: intRef(-1)})
		assert.ErrorIs(t, err, ErrFixtureScoreNegative)
	})
	t.Run("cancelled fixtures are frozen", func(t *testing.T) {
		cancelled := env.secondFixture(t)
		_, err := env.fixtureSvc.Update(ctx, adminID, cancelled.ID, UpdateFixtureInput{Status: statusRef(models.FixtureCancelled)})
		require.NoError(t, err)
		_, err = env.fixtureSvc.Update(ctx, adminID, cancelled.ID, UpdateFixtureInput{Venue: strRef("Elsewhere")})
		assert.ErrorIs(t, err, ErrFixtureNotModifiable)
	})
}

func TestUpdateToFullTimeFinalizes(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	_, err := env.matchEvents.Record(ctx, adminID, fixture.ID, RecordEventInput{
		Type: models.EventGoal, Minute: minute(12), PlayerID: playerRef(homeForwardID),
	})
	require.NoError(t, err)

	updated, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{
		Status:    statusRef(models.FixtureFullTime),
		AwayScore: intRef(0),
	})
	require.NoError(t, err)
	assert.True(t, updated.StandingsApplied)

	home, err := env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, homeTeamID)
	require.NoError(t, err)
	assert.Equal(t, 3, home.Points)
	assert.Equal(t, 1, home.GoalsFor)

	t.Run("score edit reverts and refinalizes", func(t *testing.T) {
		_, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{
			HomeScore: intRef(0), AwayScore: intRef(2),
		})
		require.NoError(t, err)

		home, err := env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, homeTeamID)
		require.NoError(t, err)
		assert.Zero(t, home.Points)
		assert.Equal(t, 1, home.Lost)
		assert.Equal(t, -2, home.GoalDifference)

		away, err := env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, awayTeamID)
		require.NoError(t, err)
		assert.Equal(t, 3, away.Points)
		assert.Equal(t, 1, away.Played)
	})

	t.Run("back to live reverts", func(t *testing.T) {
		updated, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{Status: statusRef(models.FixtureLive)})
		require.NoError(t, err)
		assert.False(t, updated.StandingsApplied)

		for _, teamID := range []int{homeTeamID, awayTeamID} {
			standing, err := env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, teamID)
			require.NoError(t, err)
			assert.Zero(t, standing.Played)
			assert.Zero(t, standing.Points)
		}
	})
}

func TestFullTimeWithoutScoresLeavesStandingsAlone(t *testing.T) {
	env := newTestEnv(true)
	env.seedMatch(t)
	fixture := env.secondFixture(t)
	ctx := context.Background()

	// A fixture can be moved to full time before the scoreboard is filled in;
	// standings only move once both scores are known.
	updated, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{Status: statusRef(models.FixtureFullTime)})
	require.NoError(t, err)
	assert.False(t, updated.StandingsApplied)

	_, err = env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, homeTeamID)
	assert.Error(t, err)

	t.Run("filling in the scores finalizes", func(t *testing.T) {
		updated, err := env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{
			HomeScore: intRef(2), AwayScore: intRef(1),
		})
		require.NoError(t, err)
		assert.True(t, updated.StandingsApplied)

		home, err := env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, homeTeamID)
		require.NoError(t, err)
		assert.Equal(t, 1, home.Won)
		assert.Equal(t, 3, home.Points)
	})
}

func TestDeleteFixtureRewindsEverything(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	_, err := env.matchEvents.Record(ctx, adminID, fixture.ID, RecordEventInput{
		Type: models.EventGoal, Minute: minute(30), PlayerID: playerRef(homeForwardID),
	})
	require.NoError(t, err)
	_, err = env.fixtureSvc.Update(ctx, adminID, fixture.ID, UpdateFixtureInput{
		Status:    statusRef(models.FixtureFullTime),
		AwayScore: intRef(0),
	})
	require.NoError(t, err)

	require.NoError(t, env.fixtureSvc.Delete(ctx, adminID, fixture.ID))

	home, err := env.standings.GetByTournamentAndTeam(ctx, nil, tournamentID, homeTeamID)
	require.NoError(t, err)
	assert.Zero(t, home.Played)
	assert.Zero(t, home.Points)

	forward, err := env.users.GetByID(ctx, nil, homeForwardID)
	require.NoError(t, err)
	assert.Zero(t, forward.MatchesPlayed)

	entry, err := env.leaderboard.GetByKey(ctx, nil, tournamentID, homeForwardID, homeTeamID)
	require.NoError(t, err)
	assert.Zero(t, entry.Goals)

	_, err = env.fixtureSvc.GetByID(ctx, fixture.ID)
	assert.ErrorIs(t, err, ErrFixtureNotFound)
	lineups, err := env.lineups.ListByFixture(ctx, nil, fixture.ID)
	require.NoError(t, err)
	assert.Empty(t, lineups)
	events, err := env.events.ListByFixture(ctx, nil, fixture.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCreateContainer(t *testing.T) {
	env := newTestEnv(true)
	env.seedMatch(t)
	ctx := context.Background()

	const (
		thirdTeamID  = 30
		fourthTeamID = 40
	)
	env.teams.add(&models.Team{ID: thirdTeamID, Name: "East Rovers"})
	env.teams.add(&models.Team{ID: fourthTeamID, Name: "West Wanderers"})
	env.tournaments.teamIDs[tournamentID] = append(env.tournaments.teamIDs[tournamentID], thirdTeamID, fourthTeamID)

	t.Run("rejects empty round", func(t *testing.T) {
		_, err := env.fixtureSvc.CreateContainer(ctx, adminID, CreateContainerInput{
			TournamentID: tournamentID, MatchType: "league",
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
	t.Run("each team plays once per round", func(t *testing.T) {
		_, err := env.fixtureSvc.CreateContainer(ctx, adminID, CreateContainerInput{
			TournamentID: tournamentID,
			MatchType:    "league",
			Pairs: []FixturePairInput{
				{HomeTeamID: homeTeamID, AwayTeamID: awayTeamID},
				{HomeTeamID: homeTeamID, AwayTeamID: thirdTeamID},
			},
		})
		assert.ErrorIs(t, err, ErrContainerTeamsUneven)
	})
	t.Run("creates the round with its fixtures", func(t *testing.T) {
		container, err := env.fixtureSvc.CreateContainer(ctx, adminID, CreateContainerInput{
			TournamentID: tournamentID,
			MatchType:    "playoff",
			Date:         dateRef(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)),
			Pairs: []FixturePairInput{
				{HomeTeamID: homeTeamID, AwayTeamID: awayTeamID},
				{HomeTeamID: thirdTeamID, AwayTeamID: fourthTeamID},
			},
		})
		require.NoError(t, err)
		require.Len(t, container.Subfixtures, 2)
		assert.Equal(t, models.FixtureScheduled, container.Subfixtures[0].Status)
		assert.Equal(t, container.ID, *container.Subfixtures[1].ContainerID)

		containers, err := env.fixtureSvc.ListContainers(ctx, tournamentID)
		require.NoError(t, err)
		require.Len(t, containers, 1)
		assert.Len(t, containers[0].Subfixtures, 2)
	})
}
