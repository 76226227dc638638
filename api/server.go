/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a browser client

ROUTE GROUPS:
  /api/presets           New-game presets
  /api/catalog/*         Reference data
  /api/users/{user}/*    One user's game, ledger, career, garage and saves

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/lifesim/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultOrigins are allowed when no CORS origins are configured.
var DefaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", h.ListPresets)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/jobs", h.ListJobs)
			r.Get("/courses", h.ListCourses)
			r.Get("/transit", h.ListTransit)
			r.Get("/cities", h.ListCities)
			r.Get("/vehicles", h.ListVehicles)
			r.Get("/services", h.ListServices)
		})

		r.Route("/users/{user}", func(r chi.Router) {
			r.Post("/game", h.NewGame)
			r.Get("/game", h.GetGame)

			// Month cycle
			r.Post("/ledger", h.BuildLedger)
			r.Post("/ledger/{line}/check", h.CheckRow)
			r.Post("/month", h.ProcessMonth)
			r.Get("/loans", h.Loans)

			// Career
			r.Get("/applications", h.ListApplications)
			r.Post("/applications", h.ApplyForJob)
			r.Post("/applications/{id}/accept", h.AcceptJob)
			r.Post("/settlement", h.OpenSettlement)
			r.Post("/negotiate", h.NegotiatePay)

			// Staging
			r.Post("/enroll", h.Enroll)
			r.Delete("/enroll", h.DropCourse)
			r.Post("/transit", h.StageTransit)
			r.Post("/relocate", h.StageRelocation)
			r.Delete("/relocate", h.CancelRelocation)
			r.Post("/entertainment", h.SetEntertainment)
			r.Put("/services/{id}", h.SetLuxuryService)

			// Garage
			r.Post("/vehicles", h.BuyVehicle)
			r.Post("/vehicles/{id}/list", h.ListVehicle)
			r.Post("/vehicles/{id}/unlist", h.UnlistVehicle)
			r.Post("/vehicles/{id}/primary", h.SetPrimaryVehicle)

			// Saves
			r.Get("/saves", h.ListSaves)
			r.Post("/saves", h.SaveGame)
			r.Delete("/saves/{name}", h.DeleteSave)
			r.Post("/saves/{name}/load", h.LoadSave)
			r.Post("/saves/{name}/rename", h.RenameSave)
		})
	})

	return r
}
