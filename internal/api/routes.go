package api

import (
	"github.com/gofiber/fiber/v2"

	"docqa/internal/service"
	"docqa/internal/session"
)

// RegisterRoutes mounts all endpoints on the fiber app.
func RegisterRoutes(app *fiber.App, rag *service.RAG, models ModelLister, sessions *session.Manager) {
	h := NewHandler(rag, models, sessions)

	app.Get("/health", h.Health)
	app.Get("/models", h.ListModels)
	app.Post("/upload", h.Upload)
	app.Post("/ask", h.Ask)
	app.Post("/challenge", h.Challenge)
	app.Post("/evaluate", h.Evaluate)
}
