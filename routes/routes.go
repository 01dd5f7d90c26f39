package routes

import (
	_ "embed"
	"net/http"

	"github.com/Dosada05/matchday-system/handlers"
	"github.com/Dosada05/matchday-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPISpec []byte

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Team        *handlers.TeamHandler
	Tournament  *handlers.TournamentHandler
	Fixture     *handlers.FixtureHandler
	Lineup      *handlers.LineupHandler
	MatchEvent  *handlers.MatchEventHandler
	Leaderboard *handlers.LeaderboardHandler
	Post        *handlers.PostHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, jwtSecret string, h Handlers) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Get("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openAPISpec)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/openapi.json"),
	))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", h.User.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Put("/{userID}", h.User.Update)
			r.Post("/{userID}/logo", h.User.UploadLogo)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.List)
		r.Get("/{teamID}", h.Team.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Team.Create)
			r.Put("/{teamID}", h.Team.Update)
			r.Delete("/{teamID}", h.Team.Delete)
			r.Post("/{teamID}/members/{userID}", h.Team.AddMember)
			r.Delete("/{teamID}/members/{userID}", h.Team.RemoveMember)
			r.Post("/{teamID}/logo", h.Team.UploadLogo)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/fixtures", h.Fixture.ListByTournament)
		r.Get("/{tournamentID}/containers", h.Fixture.ListContainers)
		r.Get("/{tournamentID}/standings", h.Fixture.Standings)
		r.Get("/{tournamentID}/leaderboard", h.Leaderboard.List)
		r.Get("/{tournamentID}/leaderboard/top", h.Leaderboard.Top)
		r.Get("/{tournamentID}/leaderboard/top-scorers", h.Leaderboard.TopScorers)
		r.Get("/{tournamentID}/leaderboard/top-assists", h.Leaderboard.TopAssists)
		r.Get("/{tournamentID}/leaderboard/top-saves", h.Leaderboard.TopSaves)
		r.Get("/{tournamentID}/awards", h.Leaderboard.Awards)
		r.Get("/{tournamentID}/posts", h.Post.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Tournament.Create)
			r.Put("/{tournamentID}", h.Tournament.Update)
			r.Delete("/{tournamentID}", h.Tournament.Delete)
			r.Post("/{tournamentID}/teams/{teamID}", h.Tournament.AddTeam)
			r.Delete("/{tournamentID}/teams/{teamID}", h.Tournament.RemoveTeam)
			r.Post("/{tournamentID}/logo", h.Tournament.UploadLogo)
		})
	})

	router.Route("/fixtures", func(r chi.Router) {
		r.Get("/{fixtureID}", h.Fixture.Get)
		r.Get("/{fixtureID}/lineups", h.Lineup.List)
		r.Get("/{fixtureID}/events", h.MatchEvent.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Fixture.Create)
			r.Post("/containers", h.Fixture.CreateContainer)
			r.Put("/{fixtureID}", h.Fixture.Update)
			r.Delete("/{fixtureID}", h.Fixture.Delete)

			r.Put("/{fixtureID}/lineups/{teamID}", h.Lineup.Set)
			r.Post("/{fixtureID}/lineups/{teamID}/players", h.Lineup.AddPlayer)
			r.Delete("/{fixtureID}/lineups/{teamID}/players/{playerID}", h.Lineup.RemovePlayer)

			r.Post("/{fixtureID}/events", h.MatchEvent.Record)
			r.Delete("/{fixtureID}/events", h.MatchEvent.Reset)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.Use(authenticate)
		r.Delete("/{eventID}", h.MatchEvent.Delete)
	})

	router.Route("/posts", func(r chi.Router) {
		r.Get("/{postID}", h.Post.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Post.Create)
			r.Put("/{postID}", h.Post.Update)
			r.Delete("/{postID}", h.Post.Delete)
			r.Post("/{postID}/image", h.Post.UploadImage)
		})
	})

	router.Get("/ws/fixtures/{fixtureID}", h.WebSocket.SubscribeFixture)
}
