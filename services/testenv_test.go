package services

import (
	"context"
	"testing"

	"github.com/Dosada05/matchday-system/models"
)

const (
	adminID      = 1
	tournamentID = 100
	homeTeamID   = 10
	awayTeamID   = 20

	homeKeeperID  = 11
	homeForwardID = 12
	homeBenchID   = 13
	awayKeeperID  = 21
	awayForwardID = 22
)

// testEnv bundles the fakes and the services wired on top of them. All
// services run with a nil database so transactions collapse into direct calls.
type testEnv struct {
	users       *fakeUserRepo
	teams       *fakeTeamRepo
	tournaments *fakeTournamentRepo
	fixtures    *fakeFixtureRepo
	lineups     *fakeLineupRepo
	stats       *fakePlayerStatsRepo
	pts         *fakePlayerTournamentStatsRepo
	standings   *fakeStandingRepo
	leaderboard *fakeLeaderboardRepo
	events      *fakeMatchEventRepo
	broadcaster *fakeBroadcaster

	engine      *statsEngine
	matchEvents MatchEventService
	standing    StandingService
	fixtureSvc  FixtureService
	lineupSvc   LineupService
}

func newTestEnv(countAllPenaltyAttempts bool) *testEnv {
	env := &testEnv{
		users:       newFakeUserRepo(),
		teams:       newFakeTeamRepo(),
		tournaments: newFakeTournamentRepo(),
		fixtures:    newFakeFixtureRepo(),
		lineups:     newFakeLineupRepo(),
		pts:         newFakePlayerTournamentStatsRepo(),
		standings:   newFakeStandingRepo(),
		leaderboard: newFakeLeaderboardRepo(),
		events:      newFakeMatchEventRepo(),
		broadcaster: &fakeBroadcaster{},
	}
	env.stats = newFakePlayerStatsRepo(env.lineups)

	env.engine = newStatsEngine(env.fixtures, env.stats, env.leaderboard, env.pts, env.users, countAllPenaltyAttempts)
	env.matchEvents = NewMatchEventService(nil, env.engine, env.events, env.fixtures, env.tournaments, env.stats, env.users, env.broadcaster)
	env.standing = NewStandingService(env.standings, env.fixtures, env.stats, env.pts, env.leaderboard, env.users, env.teams, nil)
	env.fixtureSvc = NewFixtureService(nil, env.engine, env.fixtures, env.tournaments, env.teams, env.events, env.lineups, env.stats, env.standing, nil, env.broadcaster)
	env.lineupSvc = NewLineupService(nil, env.lineups, env.stats, env.pts, env.fixtures, env.tournaments, env.users, nil)
	return env
}

func position(p models.PlayerPosition) *models.PlayerPosition {
	return &p
}

func teamRef(id int) *int {
	v := id
	return &v
}

// seedMatch builds the standard scenario: an admin-run tournament with two
// registered teams and a LIVE fixture whose lineups hold a keeper and a
// forward per side, plus a home bench player.
func (env *testEnv) seedMatch(t *testing.T) *models.Fixture {
	t.Helper()

	env.users.add(&models.User{ID: adminID, FirstName: "Arman", Email: "admin@example.com", Role: models.RoleAdmin})
	env.teams.add(&models.Team{ID: homeTeamID, Name: "North End"})
	env.teams.add(&models.Team{ID: awayTeamID, Name: "South Side"})
	env.tournaments.add(&models.Tournament{ID: tournamentID, Name: "City League", AdminID: adminID, Status: models.TournamentActive})
	env.tournaments.teamIDs[tournamentID] = []int{homeTeamID, awayTeamID}

	players := []struct {
		id       int
		teamID   int
		pos      models.PlayerPosition
		starting bool
	}{
		{homeKeeperID, homeTeamID, models.PositionGoalkeeper, true},
		{homeForwardID, homeTeamID, models.PositionForward, true},
		{homeBenchID, homeTeamID, models.PositionMidfielder, false},
		{awayKeeperID, awayTeamID, models.PositionGoalkeeper, true},
		{awayForwardID, awayTeamID, models.PositionForward, true},
	}
	for _, p := range players {
		env.users.add(&models.User{
			ID:              p.id,
			FirstName:       "Player",
			Role:            models.RolePlayer,
			TeamID:          teamRef(p.teamID),
			PrimaryPosition: position(p.pos),
		})
	}

	fixture := &models.Fixture{
		TournamentID: tournamentID,
		HomeTeamID:   homeTeamID,
		AwayTeamID:   awayTeamID,
		Status:       models.FixtureLive,
	}
	env.fixtures.add(fixture)

	lineupIDs := make(map[int]int, 2)
	for _, teamID := range []int{homeTeamID, awayTeamID} {
		lineup := &models.Lineup{FixtureID: fixture.ID, TeamID: teamID}
		if err := env.lineups.Create(context.Background(), nil, lineup); err != nil {
			t.Fatalf("seed lineup: %v", err)
		}
		lineupIDs[teamID] = lineup.ID
	}
	for _, p := range players {
		stats := &models.PlayerStats{
			LineupID:     lineupIDs[p.teamID],
			PlayerID:     p.id,
			TournamentID: tournamentID,
			Position:     p.pos,
			IsStarting:   p.starting,
			IsOnField:    true,
		}
		if err := env.stats.Create(context.Background(), nil, stats); err != nil {
			t.Fatalf("seed player stats: %v", err)
		}
	}
	return fixture
}

func (env *testEnv) statsOf(t *testing.T, playerID, fixtureID int) *models.PlayerStats {
	t.Helper()
	stats, err := env.stats.FindByPlayerAndFixture(context.Background(), nil, playerID, fixtureID)
	if err != nil {
		t.Fatalf("player %d has no stats row for fixture %d: %v", playerID, fixtureID, err)
	}
	return stats
}

func (env *testEnv) fixtureByID(t *testing.T, id int) *models.Fixture {
	t.Helper()
	fixture, err := env.fixtures.GetByID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("fixture %d: %v", id, err)
	}
	return fixture
}
