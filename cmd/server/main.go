package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"docqa/internal/api"
	"docqa/internal/config"
	"docqa/internal/llm"
	"docqa/internal/service"
	"docqa/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	client := llm.NewClient(cfg)
	sessions := session.NewManager()
	rag := service.NewRAG(client, cfg)

	app := fiber.New(fiber.Config{BodyLimit: 50 * 1024 * 1024})
	api.RegisterRoutes(app, rag, client, sessions)

	log.Printf("server started at %s (llm: %s)", cfg.ServerAddr, cfg.LLMBaseURL)
	log.Fatal(app.Listen(cfg.ServerAddr))
}
