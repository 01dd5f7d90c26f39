package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/matchday-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jersey(n int) *int {
	return &n
}

// secondFixture adds another fixture between the seeded teams with no lineups.
func (env *testEnv) secondFixture(t *testing.T) *models.Fixture {
	t.Helper()
	fixture := &models.Fixture{
		TournamentID: tournamentID,
		HomeTeamID:   homeTeamID,
		AwayTeamID:   awayTeamID,
		Status:       models.FixtureScheduled,
	}
	env.fixtures.add(fixture)
	return fixture
}

func TestSetLineupCreatesRoster(t *testing.T) {
	env := newTestEnv(true)
	env.seedMatch(t)
	fixture := env.secondFixture(t)

	lineup, err := env.lineupSvc.SetLineup(context.Background(), adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
		{PlayerID: homeKeeperID, Position: models.PositionGoalkeeper, IsStarting: true},
		{PlayerID: homeForwardID, Position: models.PositionForward, IsStarting: true},
		{PlayerID: homeBenchID, Position: models.PositionMidfielder},
	})
	require.NoError(t, err)
	require.Len(t, lineup.Players, 3)

	byPlayer := make(map[int]*models.PlayerStats, len(lineup.Players))
	for _, p := range lineup.Players {
		byPlayer[p.PlayerID] = p
	}
	require.Contains(t, byPlayer, homeBenchID)
	assert.True(t, byPlayer[homeKeeperID].IsStarting)
	assert.True(t, byPlayer[homeKeeperID].IsOnField)
	assert.False(t, byPlayer[homeBenchID].IsStarting)
	assert.True(t, byPlayer[homeBenchID].IsOnField)
	assert.Equal(t, models.PositionMidfielder, byPlayer[homeBenchID].Position)
}

func TestSetLineupRejectsOversizeRoster(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)

	players := make([]LineupPlayerInput, models.MaxLineupSize+1)
	for i := range players {
		players[i] = LineupPlayerInput{PlayerID: 1000 + i, Position: models.PositionMidfielder}
	}
	_, err := env.lineupSvc.SetLineup(context.Background(), adminID, fixture.ID, homeTeamID, players)
	assert.ErrorIs(t, err, ErrLineupTooLarge)
}

func TestSetLineupRejectsDuplicatePlayer(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)

	_, err := env.lineupSvc.SetLineup(context.Background(), adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
		{PlayerID: homeForwardID, Position: models.PositionForward},
		{PlayerID: homeForwardID, Position: models.PositionMidfielder},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSetLineupGuards(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	t.Run("admin only", func(t *testing.T) {
		_, err := env.lineupSvc.SetLineup(ctx, homeForwardID, fixture.ID, homeTeamID, nil)
		assert.ErrorIs(t, err, ErrTournamentAdminOnly)
	})
	t.Run("team must play the fixture", func(t *testing.T) {
		_, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, 999, nil)
		assert.ErrorIs(t, err, ErrLineupTeamNotInFixture)
	})
	t.Run("player of another team", func(t *testing.T) {
		_, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
			{PlayerID: awayForwardID, Position: models.PositionForward},
		})
		assert.ErrorIs(t, err, ErrPlayerNotInTeam)
	})
	t.Run("unknown player", func(t *testing.T) {
		_, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
			{PlayerID: 999, Position: models.PositionForward},
		})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSetLineupRejectsPlayerNamedInOppositeLineup(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	// A home-team player whose stats row already sits in the away lineup.
	const strayID = 14
	env.users.add(&models.User{ID: strayID, FirstName: "Player", Role: models.RolePlayer, TeamID: teamRef(homeTeamID)})
	awayLineup, err := env.lineups.FindByFixtureAndTeam(ctx, nil, fixture.ID, awayTeamID)
	require.NoError(t, err)
	require.NoError(t, env.stats.Create(ctx, nil, &models.PlayerStats{
		LineupID:     awayLineup.ID,
		PlayerID:     strayID,
		TournamentID: tournamentID,
		Position:     models.PositionDefender,
	}))

	_, err = env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
		{PlayerID: strayID, Position: models.PositionDefender},
	})
	assert.ErrorIs(t, err, ErrPlayerInBothLineups)
}

func TestJerseyNumbersAreUniquePerTournament(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	_, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
		{PlayerID: homeForwardID, Position: models.PositionForward, IsStarting: true, JerseyNumber: jersey(9)},
	})
	require.NoError(t, err)

	t.Run("taken by another player", func(t *testing.T) {
		_, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
			{PlayerID: homeForwardID, Position: models.PositionForward, IsStarting: true, JerseyNumber: jersey(9)},
			{PlayerID: homeBenchID, Position: models.PositionMidfielder, JerseyNumber: jersey(9)},
		})
		assert.ErrorIs(t, err, ErrJerseyNumberTaken)
	})
	t.Run("holder can reclaim it", func(t *testing.T) {
		_, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
			{PlayerID: homeForwardID, Position: models.PositionForward, IsStarting: true, JerseyNumber: jersey(9)},
		})
		assert.NoError(t, err)
	})
}

func TestSetLineupPreservesRetainedStats(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	// Aggregates and on-field state accumulated before the roster tweak.
	forward := env.statsOf(t, homeForwardID, fixture.ID)
	require.NoError(t, env.stats.AddToField(ctx, nil, forward.ID, "goals", 2))
	require.NoError(t, env.stats.SetOnField(ctx, nil, forward.ID, false))

	lineup, err := env.lineupSvc.SetLineup(ctx, adminID, fixture.ID, homeTeamID, []LineupPlayerInput{
		{PlayerID: homeKeeperID, Position: models.PositionGoalkeeper, IsStarting: true},
		{PlayerID: homeForwardID, Position: models.PositionMidfielder, IsStarting: true},
	})
	require.NoError(t, err)
	require.Len(t, lineup.Players, 2)

	kept := env.statsOf(t, homeForwardID, fixture.ID)
	assert.Equal(t, forward.ID, kept.ID)
	assert.Equal(t, 2, kept.Goals)
	assert.False(t, kept.IsOnField)
	assert.Equal(t, models.PositionMidfielder, kept.Position)

	// The bench player was dropped from the roster.
	_, err = env.stats.FindByPlayerAndFixture(ctx, nil, homeBenchID, fixture.ID)
	assert.Error(t, err)
}

func TestAddPlayer(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	const newcomerID = 15
	env.users.add(&models.User{ID: newcomerID, FirstName: "Player", Role: models.RolePlayer, TeamID: teamRef(homeTeamID)})

	stats, err := env.lineupSvc.AddPlayer(ctx, adminID, fixture.ID, homeTeamID, LineupPlayerInput{
		PlayerID: newcomerID, Position: models.PositionDefender,
	})
	require.NoError(t, err)
	assert.Equal(t, homeTeamID, stats.TeamID)
	assert.True(t, stats.IsOnField)

	_, err = env.lineupSvc.AddPlayer(ctx, adminID, fixture.ID, homeTeamID, LineupPlayerInput{
		PlayerID: newcomerID, Position: models.PositionDefender,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAddPlayerRespectsRosterCap(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	for i := 0; i < models.MaxLineupSize-3; i++ {
		id := 500 + i
		env.users.add(&models.User{ID: id, FirstName: fmt.Sprintf("Filler%d", i), Role: models.RolePlayer, TeamID: teamRef(homeTeamID)})
		_, err := env.lineupSvc.AddPlayer(ctx, adminID, fixture.ID, homeTeamID, LineupPlayerInput{
			PlayerID: id, Position: models.PositionMidfielder,
		})
		require.NoError(t, err)
	}

	env.users.add(&models.User{ID: 999, FirstName: "Overflow", Role: models.RolePlayer, TeamID: teamRef(homeTeamID)})
	_, err := env.lineupSvc.AddPlayer(ctx, adminID, fixture.ID, homeTeamID, LineupPlayerInput{
		PlayerID: 999, Position: models.PositionMidfielder,
	})
	assert.ErrorIs(t, err, ErrLineupTooLarge)
}

func TestRemovePlayer(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)
	ctx := context.Background()

	t.Run("wrong team", func(t *testing.T) {
		err := env.lineupSvc.RemovePlayer(ctx, adminID, fixture.ID, awayTeamID, homeForwardID)
		assert.ErrorIs(t, err, ErrPlayerNotInLineup)
	})
	t.Run("not named at all", func(t *testing.T) {
		err := env.lineupSvc.RemovePlayer(ctx, adminID, fixture.ID, homeTeamID, 999)
		assert.ErrorIs(t, err, ErrPlayerNotInLineup)
	})
	t.Run("removes the stats row", func(t *testing.T) {
		require.NoError(t, env.lineupSvc.RemovePlayer(ctx, adminID, fixture.ID, homeTeamID, homeBenchID))
		_, err := env.stats.FindByPlayerAndFixture(ctx, nil, homeBenchID, fixture.ID)
		assert.Error(t, err)
	})
}

func TestListByFixtureAttachesPlayers(t *testing.T) {
	env := newTestEnv(true)
	fixture := env.seedMatch(t)

	lineups, err := env.lineupSvc.ListByFixture(context.Background(), fixture.ID)
	require.NoError(t, err)
	require.Len(t, lineups, 2)
	for _, lineup := range lineups {
		require.NotEmpty(t, lineup.Players)
		for _, p := range lineup.Players {
			require.NotNil(t, p.Player)
			assert.Equal(t, p.PlayerID, p.Player.ID)
		}
	}

	_, err = env.lineupSvc.ListByFixture(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrFixtureNotFound)
}
