package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. Auth routes are open; everything under
// /api/capsules requires a valid bearer token.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/api/capsules", h.createCapsule)
		r.Get("/api/capsules", h.listCapsules)
		r.Get("/api/capsules/{id}", h.getCapsule)
		r.Post("/api/capsules/{id}/unlock", h.unlockCapsule)
		r.Post("/api/capsules/{id}/files/slots", h.createFileSlot)
		r.Post("/api/capsules/{id}/files", h.createFile)
		r.Get("/api/capsules/{id}/files", h.listFiles)
	})

	return router
}
