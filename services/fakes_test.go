package services

import (
	"context"
	"sort"
	"time"

	"github.com/Dosada05/matchday-system/models"
	"github.com/Dosada05/matchday-system/repositories"
)

// In-memory repository fakes. The services under test are constructed with a
// nil *sql.DB, so runInTx hands them a nil executor and every fake ignores it.

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.add(copyUser(user))
	user.ID = r.nextID - 1
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, exec repositories.SQLExecutor, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *fakeUserRepo) ListByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.users {
		if user.TeamID != nil && *user.TeamID == teamID {
			out = append(out, copyUser(user))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) AddMatchesPlayed(ctx context.Context, exec repositories.SQLExecutor, id int, delta int) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.MatchesPlayed += delta
	if user.MatchesPlayed < 0 {
		user.MatchesPlayed = 0
	}
	return nil
}

func (r *fakeUserRepo) SetPlaying(ctx context.Context, exec repositories.SQLExecutor, id int, playing bool) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.IsPlaying = playing
	return nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(team *models.Team) *models.Team {
	if team.ID == 0 {
		team.ID = r.nextID
		r.nextID++
	} else if team.ID >= r.nextID {
		r.nextID = team.ID + 1
	}
	r.teams[team.ID] = team
	return team
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	for _, existing := range r.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	r.add(team)
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	c := *team
	return &c, nil
}

func (r *fakeTeamRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		c := *team
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	c := *team
	r.teams[team.ID] = &c
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) ListMemberIDs(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]int, error) {
	return nil, nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	teamIDs     map[int][]int
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{
		tournaments: make(map[int]*models.Tournament),
		teamIDs:     make(map[int][]int),
		nextID:      1,
	}
}

func (r *fakeTournamentRepo) add(t *models.Tournament) *models.Tournament {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	} else if t.ID >= r.nextID {
		r.nextID = t.ID + 1
	}
	r.tournaments[t.ID] = t
	return t
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	r.add(tournament)
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	c := *tournament
	return &c, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.tournaments {
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	c := *tournament
	r.tournaments[tournament.ID] = &c
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func (r *fakeTournamentRepo) ListTeamIDs(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]int, error) {
	return r.teamIDs[tournamentID], nil
}

func (r *fakeTournamentRepo) AddTeam(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) error {
	r.teamIDs[tournamentID] = append(r.teamIDs[tournamentID], teamID)
	return nil
}

func (r *fakeTournamentRepo) RemoveTeam(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) error {
	ids := r.teamIDs[tournamentID]
	for i, id := range ids {
		if id == teamID {
			r.teamIDs[tournamentID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeFixtureRepo struct {
	fixtures   map[int]*models.Fixture
	containers map[int]*models.FixtureContainer
	nextID     int
}

func newFakeFixtureRepo() *fakeFixtureRepo {
	return &fakeFixtureRepo{
		fixtures:   make(map[int]*models.Fixture),
		containers: make(map[int]*models.FixtureContainer),
		nextID:     1,
	}
}

func (r *fakeFixtureRepo) add(f *models.Fixture) *models.Fixture {
	if f.ID == 0 {
		f.ID = r.nextID
		r.nextID++
	} else if f.ID >= r.nextID {
		r.nextID = f.ID + 1
	}
	r.fixtures[f.ID] = f
	return f
}

func (r *fakeFixtureRepo) Create(ctx context.Context, exec repositories.SQLExecutor, fixture *models.Fixture) error {
	fixture.CreatedAt = time.Now()
	r.add(fixture)
	return nil
}

func (r *fakeFixtureRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Fixture, error) {
	fixture, ok := r.fixtures[id]
	if !ok {
		return nil, repositories.ErrFixtureNotFound
	}
	c := *fixture
	return &c, nil
}

func (r *fakeFixtureRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Fixture, error) {
	var out []*models.Fixture
	for _, f := range r.fixtures {
		c := *f
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeFixtureRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Fixture, error) {
	var out []*models.Fixture
	for _, f := range r.fixtures {
		if f.TournamentID == tournamentID {
			c := *f
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeFixtureRepo) ListByContainer(ctx context.Context, exec repositories.SQLExecutor, containerID int) ([]*models.Fixture, error) {
	var out []*models.Fixture
	for _, f := range r.fixtures {
		if f.ContainerID != nil && *f.ContainerID == containerID {
			c := *f
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeFixtureRepo) Update(ctx context.Context, exec repositories.SQLExecutor, id int, upd repositories.FixtureUpdate) error {
	fixture, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	if upd.Date != nil {
		if parsed, err := time.Parse(time.RFC3339, *upd.Date); err == nil {
			fixture.Date = parsed
		}
	}
	if upd.Time != nil {
		fixture.Time = upd.Time
	}
	if upd.Venue != nil {
		fixture.Venue = upd.Venue
	}
	if upd.Status != nil {
		fixture.Status = *upd.Status
	}
	if upd.HomeScore != nil {
		v := *upd.HomeScore
		fixture.HomeScore = &v
	}
	if upd.AwayScore != nil {
		v := *upd.AwayScore
		fixture.AwayScore = &v
	}
	return nil
}

func (r *fakeFixtureRepo) SetStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.FixtureStatus) error {
	fixture, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	fixture.Status = status
	return nil
}

func (r *fakeFixtureRepo) AddToScore(ctx context.Context, exec repositories.SQLExecutor, id int, side repositories.ScoreSide, delta int) error {
	fixture, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	target := &fixture.HomeScore
	if side == repositories.AwaySide {
		target = &fixture.AwayScore
	}
	current := 0
	if *target != nil {
		current = **target
	}
	current += delta
	if current < 0 {
		current = 0
	}
	*target = &current
	return nil
}

func (r *fakeFixtureRepo) AddToPenaltyScore(ctx context.Context, exec repositories.SQLExecutor, id int, side repositories.ScoreSide, delta int) error {
	fixture, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	if side == repositories.HomeSide {
		fixture.HomePenaltyScore += delta
		if fixture.HomePenaltyScore < 0 {
			fixture.HomePenaltyScore = 0
		}
	} else {
		fixture.AwayPenaltyScore += delta
		if fixture.AwayPenaltyScore < 0 {
			fixture.AwayPenaltyScore = 0
		}
	}
	return nil
}

func (r *fakeFixtureRepo) ResetScore(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	fixture, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	fixture.HomeScore = nil
	fixture.AwayScore = nil
	fixture.HomePenaltyScore = 0
	fixture.AwayPenaltyScore = 0
	return nil
}

func (r *fakeFixtureRepo) SetStandingsApplied(ctx context.Context, exec repositories.SQLExecutor, id int, applied bool) error {
	fixture, ok := r.fixtures[id]
	if !ok {
		return repositories.ErrFixtureNotFound
	}
	fixture.StandingsApplied = applied
	return nil
}

func (r *fakeFixtureRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.fixtures[id]; !ok {
		return repositories.ErrFixtureNotFound
	}
	delete(r.fixtures, id)
	return nil
}

func (r *fakeFixtureRepo) DeleteByContainerID(ctx context.Context, exec repositories.SQLExecutor, containerID int) error {
	for id, f := range r.fixtures {
		if f.ContainerID != nil && *f.ContainerID == containerID {
			delete(r.fixtures, id)
		}
	}
	return nil
}

func (r *fakeFixtureRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, f := range r.fixtures {
		if f.TournamentID == tournamentID {
			delete(r.fixtures, id)
		}
	}
	return nil
}

func (r *fakeFixtureRepo) CountFullTimeByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, f := range r.fixtures {
		if f.TournamentID == tournamentID && f.Status == models.FixtureFullTime {
			count++
		}
	}
	return count, nil
}

func (r *fakeFixtureRepo) CreateContainer(ctx context.Context, exec repositories.SQLExecutor, container *models.FixtureContainer) error {
	container.ID = r.nextID
	r.nextID++
	container.CreatedAt = time.Now()
	r.containers[container.ID] = container
	return nil
}

func (r *fakeFixtureRepo) GetContainerByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.FixtureContainer, error) {
	container, ok := r.containers[id]
	if !ok {
		return nil, repositories.ErrFixtureContainerNotFound
	}
	c := *container
	return &c, nil
}

func (r *fakeFixtureRepo) ListContainersByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.FixtureContainer, error) {
	var out []*models.FixtureContainer
	for _, container := range r.containers {
		if container.TournamentID == tournamentID {
			c := *container
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeFixtureRepo) DeleteContainersByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, container := range r.containers {
		if container.TournamentID == tournamentID {
			delete(r.containers, id)
		}
	}
	return nil
}

type fakeLineupRepo struct {
	lineups map[int]*models.Lineup
	nextID  int
}

func newFakeLineupRepo() *fakeLineupRepo {
	return &fakeLineupRepo{lineups: make(map[int]*models.Lineup), nextID: 1}
}

func (r *fakeLineupRepo) Create(ctx context.Context, exec repositories.SQLExecutor, lineup *models.Lineup) error {
	lineup.ID = r.nextID
	r.nextID++
	lineup.CreatedAt = time.Now()
	c := *lineup
	r.lineups[lineup.ID] = &c
	return nil
}

func (r *fakeLineupRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Lineup, error) {
	lineup, ok := r.lineups[id]
	if !ok {
		return nil, repositories.ErrLineupNotFound
	}
	c := *lineup
	return &c, nil
}

func (r *fakeLineupRepo) FindByFixtureAndTeam(ctx context.Context, exec repositories.SQLExecutor, fixtureID, teamID int) (*models.Lineup, error) {
	for _, lineup := range r.lineups {
		if lineup.FixtureID == fixtureID && lineup.TeamID == teamID {
			c := *lineup
			return &c, nil
		}
	}
	return nil, repositories.ErrLineupNotFound
}

func (r *fakeLineupRepo) ListByFixture(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) ([]*models.Lineup, error) {
	var out []*models.Lineup
	for _, lineup := range r.lineups {
		if lineup.FixtureID == fixtureID {
			c := *lineup
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLineupRepo) DeleteByFixtureID(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) error {
	for id, lineup := range r.lineups {
		if lineup.FixtureID == fixtureID {
			delete(r.lineups, id)
		}
	}
	return nil
}

func (r *fakeLineupRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	return nil
}

type fakePlayerStatsRepo struct {
	rows    map[int]*models.PlayerStats
	lineups *fakeLineupRepo
	nextID  int
}

func newFakePlayerStatsRepo(lineups *fakeLineupRepo) *fakePlayerStatsRepo {
	return &fakePlayerStatsRepo{rows: make(map[int]*models.PlayerStats), lineups: lineups, nextID: 1}
}

func (r *fakePlayerStatsRepo) lineupFor(row *models.PlayerStats) *models.Lineup {
	return r.lineups.lineups[row.LineupID]
}

func (r *fakePlayerStatsRepo) copyRow(row *models.PlayerStats) *models.PlayerStats {
	c := *row
	if lineup := r.lineupFor(row); lineup != nil {
		c.TeamID = lineup.TeamID
	}
	return &c
}

func (r *fakePlayerStatsRepo) Create(ctx context.Context, exec repositories.SQLExecutor, stats *models.PlayerStats) error {
	stats.ID = r.nextID
	r.nextID++
	c := *stats
	r.rows[stats.ID] = &c
	return nil
}

func (r *fakePlayerStatsRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.PlayerStats, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrPlayerStatsNotFound
	}
	return r.copyRow(row), nil
}

func (r *fakePlayerStatsRepo) FindByPlayerAndFixture(ctx context.Context, exec repositories.SQLExecutor, playerID, fixtureID int) (*models.PlayerStats, error) {
	for _, row := range r.rows {
		if row.PlayerID != playerID {
			continue
		}
		if lineup := r.lineupFor(row); lineup != nil && lineup.FixtureID == fixtureID {
			return r.copyRow(row), nil
		}
	}
	return nil, repositories.ErrPlayerStatsNotFound
}

func (r *fakePlayerStatsRepo) ListByLineup(ctx context.Context, exec repositories.SQLExecutor, lineupID int) ([]*models.PlayerStats, error) {
	var out []*models.PlayerStats
	for _, row := range r.rows {
		if row.LineupID == lineupID {
			out = append(out, r.copyRow(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerStatsRepo) ListByFixture(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) ([]*models.PlayerStats, error) {
	var out []*models.PlayerStats
	for _, row := range r.rows {
		if lineup := r.lineupFor(row); lineup != nil && lineup.FixtureID == fixtureID {
			out = append(out, r.copyRow(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerStatsRepo) AddToField(ctx context.Context, exec repositories.SQLExecutor, id int, field string, delta int) error {
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	switch field {
	case "goals":
		row.Goals = clamp(row.Goals + delta)
	case "assists":
		row.Assists = clamp(row.Assists + delta)
	case "yellow_cards":
		row.YellowCards = clamp(row.YellowCards + delta)
	case "red_cards":
		row.RedCards = clamp(row.RedCards + delta)
	case "penalty_goals":
		row.PenaltyGoals = clamp(row.PenaltyGoals + delta)
	case "minutes_played":
		row.MinutesPlayed = clamp(row.MinutesPlayed + delta)
	default:
		return repositories.ErrPlayerStatsFieldUnknown
	}
	return nil
}

func (r *fakePlayerStatsRepo) SetOnField(ctx context.Context, exec repositories.SQLExecutor, id int, onField bool) error {
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	row.IsOnField = onField
	return nil
}

func (r *fakePlayerStatsRepo) SetMinutesPlayed(ctx context.Context, exec repositories.SQLExecutor, id int, minutes int) error {
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	row.MinutesPlayed = minutes
	return nil
}

func (r *fakePlayerStatsRepo) SetPosition(ctx context.Context, exec repositories.SQLExecutor, id int, position models.PlayerPosition) error {
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	row.Position = position
	return nil
}

func (r *fakePlayerStatsRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakePlayerStatsRepo) DeleteByLineupID(ctx context.Context, exec repositories.SQLExecutor, lineupID int) error {
	for id, row := range r.rows {
		if row.LineupID == lineupID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakePlayerStatsRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, row := range r.rows {
		if row.TournamentID == tournamentID {
			delete(r.rows, id)
		}
	}
	return nil
}

type ptsKey struct {
	playerID     int
	tournamentID int
}

type fakePlayerTournamentStatsRepo struct {
	rows   map[ptsKey]*models.PlayerTournamentStats
	nextID int
}

func newFakePlayerTournamentStatsRepo() *fakePlayerTournamentStatsRepo {
	return &fakePlayerTournamentStatsRepo{rows: make(map[ptsKey]*models.PlayerTournamentStats), nextID: 1}
}

func (r *fakePlayerTournamentStatsRepo) GetByPlayerAndTournament(ctx context.Context, exec repositories.SQLExecutor, playerID, tournamentID int) (*models.PlayerTournamentStats, error) {
	row, ok := r.rows[ptsKey{playerID, tournamentID}]
	if !ok {
		return nil, repositories.ErrPlayerTournamentStatsNotFound
	}
	c := *row
	return &c, nil
}

func (r *fakePlayerTournamentStatsRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, stats *models.PlayerTournamentStats) error {
	key := ptsKey{stats.PlayerID, stats.TournamentID}
	if existing, ok := r.rows[key]; ok {
		existing.JerseyNumber = stats.JerseyNumber
		stats.ID = existing.ID
		return nil
	}
	stats.ID = r.nextID
	r.nextID++
	c := *stats
	r.rows[key] = &c
	return nil
}

func (r *fakePlayerTournamentStatsRepo) AddMatchesPlayed(ctx context.Context, exec repositories.SQLExecutor, playerID, tournamentID, delta int) error {
	row, ok := r.rows[ptsKey{playerID, tournamentID}]
	if !ok {
		return repositories.ErrPlayerTournamentStatsNotFound
	}
	row.MatchesPlayed += delta
	if row.MatchesPlayed < 0 {
		row.MatchesPlayed = 0
	}
	return nil
}

func (r *fakePlayerTournamentStatsRepo) AddMinutesPlayed(ctx context.Context, exec repositories.SQLExecutor, playerID, tournamentID, delta int) error {
	row, ok := r.rows[ptsKey{playerID, tournamentID}]
	if !ok {
		return repositories.ErrPlayerTournamentStatsNotFound
	}
	row.MinutesPlayed += delta
	if row.MinutesPlayed < 0 {
		row.MinutesPlayed = 0
	}
	return nil
}

func (r *fakePlayerTournamentStatsRepo) SetJerseyNumber(ctx context.Context, exec repositories.SQLExecutor, playerID, tournamentID int, jersey *int) error {
	row, ok := r.rows[ptsKey{playerID, tournamentID}]
	if !ok {
		return repositories.ErrPlayerTournamentStatsNotFound
	}
	row.JerseyNumber = jersey
	return nil
}

func (r *fakePlayerTournamentStatsRepo) FindJerseyHolder(ctx context.Context, exec repositories.SQLExecutor, tournamentID, jersey int) (*models.PlayerTournamentStats, error) {
	for _, row := range r.rows {
		if row.TournamentID == tournamentID && row.JerseyNumber != nil && *row.JerseyNumber == jersey {
			c := *row
			return &c, nil
		}
	}
	return nil, repositories.ErrPlayerTournamentStatsNotFound
}

func (r *fakePlayerTournamentStatsRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for key, row := range r.rows {
		if row.TournamentID == tournamentID {
			delete(r.rows, key)
		}
	}
	return nil
}

type standingKey struct {
	tournamentID int
	teamID       int
}

type fakeStandingRepo struct {
	rows   map[standingKey]*models.TournamentStanding
	nextID int
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{rows: make(map[standingKey]*models.TournamentStanding), nextID: 1}
}

func (r *fakeStandingRepo) GetByTournamentAndTeam(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) (*models.TournamentStanding, error) {
	row, ok := r.rows[standingKey{tournamentID, teamID}]
	if !ok {
		return nil, repositories.ErrStandingNotFound
	}
	c := *row
	return &c, nil
}

func (r *fakeStandingRepo) Create(ctx context.Context, exec repositories.SQLExecutor, standing *models.TournamentStanding) error {
	standing.ID = r.nextID
	r.nextID++
	c := *standing
	r.rows[standingKey{standing.TournamentID, standing.TeamID}] = &c
	return nil
}

func (r *fakeStandingRepo) GetOrCreate(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int) (*models.TournamentStanding, error) {
	if row, ok := r.rows[standingKey{tournamentID, teamID}]; ok {
		c := *row
		return &c, nil
	}
	standing := &models.TournamentStanding{TournamentID: tournamentID, TeamID: teamID}
	if err := r.Create(ctx, exec, standing); err != nil {
		return nil, err
	}
	return standing, nil
}

func (r *fakeStandingRepo) ApplyDeltas(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int, deltas repositories.StandingDeltas) error {
	row, ok := r.rows[standingKey{tournamentID, teamID}]
	if !ok {
		return repositories.ErrStandingNotFound
	}
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	row.Played = clamp(row.Played + deltas.Played)
	row.Won = clamp(row.Won + deltas.Won)
	row.Drawn = clamp(row.Drawn + deltas.Drawn)
	row.Lost = clamp(row.Lost + deltas.Lost)
	row.GoalsFor = clamp(row.GoalsFor + deltas.GoalsFor)
	row.GoalsAgainst = clamp(row.GoalsAgainst + deltas.GoalsAgainst)
	row.GoalDifference = row.GoalDifference + deltas.GoalsFor - deltas.GoalsAgainst
	row.Points = clamp(row.Points + deltas.Points)
	return nil
}

func (r *fakeStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.TournamentStanding, error) {
	var out []*models.TournamentStanding
	for _, row := range r.rows {
		if row.TournamentID == tournamentID {
			c := *row
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	return out, nil
}

func (r *fakeStandingRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for key, row := range r.rows {
		if row.TournamentID == tournamentID {
			delete(r.rows, key)
		}
	}
	return nil
}

type leaderboardKey struct {
	tournamentID int
	playerID     int
	teamID       int
}

type fakeLeaderboardRepo struct {
	rows   map[leaderboardKey]*models.LeaderboardEntry
	nextID int
}

func newFakeLeaderboardRepo() *fakeLeaderboardRepo {
	return &fakeLeaderboardRepo{rows: make(map[leaderboardKey]*models.LeaderboardEntry), nextID: 1}
}

func (r *fakeLeaderboardRepo) GetByKey(ctx context.Context, exec repositories.SQLExecutor, tournamentID, playerID, teamID int) (*models.LeaderboardEntry, error) {
	row, ok := r.rows[leaderboardKey{tournamentID, playerID, teamID}]
	if !ok {
		return nil, repositories.ErrLeaderboardEntryNotFound
	}
	c := *row
	return &c, nil
}

func (r *fakeLeaderboardRepo) Create(ctx context.Context, exec repositories.SQLExecutor, entry *models.LeaderboardEntry) error {
	key := leaderboardKey{entry.TournamentID, entry.PlayerID, entry.TeamID}
	if existing, ok := r.rows[key]; ok {
		entry.ID = existing.ID
		return nil
	}
	entry.ID = r.nextID
	r.nextID++
	c := *entry
	r.rows[key] = &c
	return nil
}

func (r *fakeLeaderboardRepo) fieldPtr(entry *models.LeaderboardEntry, field string) *int {
	switch field {
	case "goals":
		return &entry.Goals
	case "assists":
		return &entry.Assists
	case "saves":
		return &entry.Saves
	case "clean_sheets":
		return &entry.CleanSheets
	case "yellow_cards":
		return &entry.YellowCards
	case "red_cards":
		return &entry.RedCards
	case "corners":
		return &entry.Corners
	case "fouls":
		return &entry.Fouls
	case "penaltys":
		return &entry.Penaltys
	}
	return nil
}

func (r *fakeLeaderboardRepo) AddToField(ctx context.Context, exec repositories.SQLExecutor, tournamentID, playerID, teamID int, field string, delta int) error {
	row, ok := r.rows[leaderboardKey{tournamentID, playerID, teamID}]
	if !ok {
		return repositories.ErrLeaderboardEntryNotFound
	}
	target := r.fieldPtr(row, field)
	if target == nil {
		return repositories.ErrLeaderboardFieldUnknown
	}
	*target += delta
	if *target < 0 {
		*target = 0
	}
	return nil
}

func (r *fakeLeaderboardRepo) TopByField(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, field string, limit int) ([]*models.LeaderboardEntry, error) {
	var blank models.LeaderboardEntry
	if r.fieldPtr(&blank, field) == nil {
		return nil, repositories.ErrLeaderboardSortFieldUnknown
	}
	var out []*models.LeaderboardEntry
	for _, row := range r.rows {
		if row.TournamentID != tournamentID {
			continue
		}
		c := *row
		if *r.fieldPtr(&c, field) > 0 {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := *r.fieldPtr(out[i], field), *r.fieldPtr(out[j], field)
		if a != b {
			return a > b
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLeaderboardRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.LeaderboardEntry, error) {
	var out []*models.LeaderboardEntry
	for _, row := range r.rows {
		if row.TournamentID == tournamentID {
			c := *row
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *fakeLeaderboardRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for key, row := range r.rows {
		if row.TournamentID == tournamentID {
			delete(r.rows, key)
		}
	}
	return nil
}

type fakeMatchEventRepo struct {
	events map[int]*models.MatchEvent
	nextID int
}

func newFakeMatchEventRepo() *fakeMatchEventRepo {
	return &fakeMatchEventRepo{events: make(map[int]*models.MatchEvent), nextID: 1}
}

func (r *fakeMatchEventRepo) Create(ctx context.Context, exec repositories.SQLExecutor, event *models.MatchEvent) error {
	event.ID = r.nextID
	r.nextID++
	event.CreatedAt = time.Now()
	c := *event
	r.events[event.ID] = &c
	return nil
}

func (r *fakeMatchEventRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.MatchEvent, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrMatchEventNotFound
	}
	c := *event
	return &c, nil
}

func (r *fakeMatchEventRepo) ListByFixture(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) ([]*models.MatchEvent, error) {
	var out []*models.MatchEvent
	for _, event := range r.events {
		if event.FixtureID == fixtureID {
			c := *event
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchEventRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrMatchEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeMatchEventRepo) DeleteByFixtureID(ctx context.Context, exec repositories.SQLExecutor, fixtureID int) error {
	for id, event := range r.events {
		if event.FixtureID == fixtureID {
			delete(r.events, id)
		}
	}
	return nil
}

func (r *fakeMatchEventRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	return nil
}

type fakeBroadcaster struct {
	messages []interface{}
}

func (b *fakeBroadcaster) BroadcastToFixture(fixtureID int, payload interface{}) {
	b.messages = append(b.messages, payload)
}
