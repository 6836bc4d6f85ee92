// Package session holds the per-session state of the assistant: the
// loaded document, its chunk index, the conversation history and any
// generated challenge questions. Everything lives in memory and is lost
// on restart.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/google/uuid"

	"docqa/internal/model"
	"docqa/internal/store"
)

// State tracks where a session is in its lifecycle.
type State string

const (
	StateIdle               State = "idle"
	StateDocumentLoaded     State = "document_loaded"
	StateChallengeGenerated State = "challenge_generated"
	StateEvaluated          State = "evaluated"
)

// ErrNotFound is returned when a session or challenge item id is unknown.
var ErrNotFound = errors.New("not found")

// Session is the explicit per-session context object passed to every
// operation. Fields are guarded by mu; handlers may run concurrently.
type Session struct {
	mu sync.Mutex

	ID      string
	DocID   string
	DocName string
	Text    string
	Summary string
	Index   *store.Index

	History    []model.ConversationTurn
	Challenges []model.ChallengeItem

	State State
}

// SetDocument replaces the loaded document and resets everything derived
// from the previous one: summary, history and challenges.
func (s *Session) SetDocument(docID, docName, text string, idx *store.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DocID = docID
	s.DocName = docName
	s.Text = text
	s.Index = idx
	s.Summary = ""
	s.History = nil
	s.Challenges = nil
	s.State = StateDocumentLoaded
}

// SetSummary records the generated summary.
func (s *Session) SetSummary(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Summary = summary
}

// AppendTurn adds a question/answer exchange to the ordered history.
func (s *Session) AppendTurn(turn model.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, turn)
}

// Turns returns a copy of the conversation history in order.
func (s *Session) Turns() []model.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ConversationTurn, len(s.History))
	copy(out, s.History)
	return out
}

// SetChallenges replaces the current challenge set.
func (s *Session) SetChallenges(items []model.ChallengeItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Challenges = items
	s.State = StateChallengeGenerated
}

// Challenge returns the challenge item with the given id.
func (s *Session) Challenge(id string) (model.ChallengeItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.Challenges {
		if it.ID == id {
			return it, nil
		}
	}
	return model.ChallengeItem{}, ErrNotFound
}

// RecordEvaluation stores the submitted answer and its evaluation on the
// matching challenge item.
func (s *Session) RecordEvaluation(id, userAnswer, evaluation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Challenges {
		if s.Challenges[i].ID == id {
			s.Challenges[i].UserAnswer = userAnswer
			s.Challenges[i].Evaluation = evaluation
			s.State = StateEvaluated
			return nil
		}
	}
	return ErrNotFound
}

// Loaded reports whether a document has been ingested into this session.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State != StateIdle && s.Index != nil
}

// Manager owns all live sessions plus a content-addressed cache of
// extracted text keyed by document hash, so re-uploading the same bytes
// skips extraction.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	extracts map[string]string
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		extracts: make(map[string]string),
	}
}

// New creates and registers a fresh idle session.
func (m *Manager) New() *Session {
	s := &Session{ID: uuid.New().String(), State: StateIdle}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Drop discards a session and everything it holds.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// CachedText returns previously extracted text for a document hash.
func (m *Manager) CachedText(docID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.extracts[docID]
	return text, ok
}

// StoreText caches extracted text under a document hash.
func (m *Manager) StoreText(docID, text string) {
	m.mu.Lock()
	m.extracts[docID] = text
	m.mu.Unlock()
}

// HashBytes derives the content-addressed document id from file bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
