/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the app frontends

ROUTE GROUPS:
  /api/vault        Full document read
  /api/settings     Settings read + sparse patch
  /api/rules/*      Calendar rule lifecycle
  /api/payroll/*    Period summary, schedule predicate
  /api/reports/*    Monthly aggregates
  /api/groceries/*  Grocery lists
  /api/fuel/*       Fuel logs
  /api/demo/*       Demo data

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/vault", h.GetVault)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", h.ListRules)
			r.Post("/", h.SaveRule)
			r.Delete("/{id}", h.DeleteRule)
			r.Post("/{id}/paid", h.TogglePaid)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/summary", h.PayrollSummary)
			r.Get("/schedule", h.PaySchedule)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly", h.MonthlyReport)
		})

		r.Route("/groceries", func(r chi.Router) {
			r.Get("/", h.ListGroceries)
			r.Post("/", h.AddGrocery)
			r.Put("/{id}", h.UpdateGrocery)
			r.Delete("/{id}", h.DeleteGrocery)
			r.Post("/{id}/check", h.ToggleGroceryChecked)
			r.Post("/archive-run", h.ArchiveRun)
		})

		r.Route("/fuel", func(r chi.Router) {
			r.Get("/", h.ListFuel)
			r.Post("/", h.AddFuel)
			r.Delete("/{id}", h.DeleteFuel)
		})

		r.Route("/demo", func(r chi.Router) {
			r.Post("/load", h.LoadDemo)
		})
	})

	return r
}
