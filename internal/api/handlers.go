package api

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sashabaranov/go-openai"

	"docqa/internal/extract"
	"docqa/internal/model"
	"docqa/internal/service"
	"docqa/internal/session"
)

// ModelLister proxies the endpoint's model list, useful against local
// LM Studio instances.
type ModelLister interface {
	ListModels(ctx context.Context) ([]openai.Model, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	rag      *service.RAG
	models   ModelLister
	sessions *session.Manager
}

// NewHandler is the handler constructor.
func NewHandler(rag *service.RAG, models ModelLister, sessions *session.Manager) *Handler {
	return &Handler{rag: rag, models: models, sessions: sessions}
}

// Health is a liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// ListModels returns the models available on the LLM endpoint.
func (h *Handler) ListModels(c *fiber.Ctx) error {
	models, err := h.models.ListModels(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(models)
}

// Upload ingests a PDF or TXT file: extract, chunk, embed, index, then
// summarize — all synchronously. Passing an existing session_id form
// field replaces that session's document; otherwise a new session is
// created. Extraction is cached by content hash.
func (h *Handler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: file)"})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open uploaded file"})
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read uploaded file"})
	}

	docID := session.HashBytes(data)
	text, cached := h.sessions.CachedText(docID)
	if !cached {
		text, err = extract.FromUpload(file.Filename, data)
		if err != nil {
			log.Printf("extract error (%s): %v", file.Filename, err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.sessions.StoreText(docID, text)
	}

	var sess *session.Session
	if id := c.FormValue("session_id"); id != "" {
		sess, err = h.sessions.Get(id)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
		}
	} else {
		sess = h.sessions.New()
	}

	res, err := h.rag.Ingest(c.Context(), sess, docID, file.Filename, text)
	if err != nil {
		log.Printf("ingest error (%s): %v", file.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.rag.Summarize(c.Context(), sess)
	if err != nil {
		log.Printf("summary error (%s): %v", file.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"session_id":   sess.ID,
		"doc":          file.Filename,
		"doc_id":       docID,
		"chunks_total": res.ChunksTotal,
		"chunks_saved": res.ChunksSaved,
		"summary":      summary,
	})
}

// Ask answers a free-form question against the session's document.
func (h *Handler) Ask(c *fiber.Ctx) error {
	var req model.AskRequest
	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"session_id\":\"...\",\"query\":\"...\"}"})
	}
	sess, ok := h.session(c, req.SessionID)
	if !ok {
		return nil
	}

	answer, ctxChunks, err := h.rag.Ask(c.Context(), sess, req.Query, req.TopK)
	if err != nil {
		log.Printf("ask error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"session_id": sess.ID,
		"answer":     answer,
		"context":    ctxChunks,
	})
}

// Challenge generates a fresh set of quiz questions for the session.
func (h *Handler) Challenge(c *fiber.Ctx) error {
	var req model.ChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	sess, ok := h.session(c, req.SessionID)
	if !ok {
		return nil
	}

	items, err := h.rag.GenerateChallenges(c.Context(), sess, req.Count)
	if err != nil {
		log.Printf("challenge error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"session_id": sess.ID,
		"questions":  items,
	})
}

// Evaluate scores a submitted answer to a generated question.
func (h *Handler) Evaluate(c *fiber.Ctx) error {
	var req model.EvaluateRequest
	if err := c.BodyParser(&req); err != nil || req.QuestionID == "" || req.Answer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"session_id\":\"...\",\"question_id\":\"...\",\"answer\":\"...\"}"})
	}
	sess, ok := h.session(c, req.SessionID)
	if !ok {
		return nil
	}

	feedback, chunks, err := h.rag.Evaluate(c.Context(), sess, req.QuestionID, req.Answer)
	if errors.Is(err, session.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown question"})
	}
	if err != nil {
		log.Printf("evaluate error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"session_id":  sess.ID,
		"question_id": req.QuestionID,
		"feedback":    feedback,
		"context":     chunks,
	})
}

// session resolves the session id and enforces the document-loaded state
// before any interaction mode runs. On failure the error response has
// already been written and ok is false.
func (h *Handler) session(c *fiber.Ctx, id string) (*session.Session, bool) {
	if id == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown session"})
		return nil, false
	}
	if !sess.Loaded() {
		_ = c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no document loaded in this session"})
		return nil, false
	}
	return sess, true
}
