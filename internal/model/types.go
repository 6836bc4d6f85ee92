package model

// Chunk is one overlapping window of a document's text. Index is stable
// within the document, so turns and challenge items can reference chunks
// by position.
type Chunk struct {
	DocID string `json:"doc_id"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ScoredChunk pairs a chunk with its cosine similarity to a query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// ConversationTurn is one question/answer exchange together with the
// chunk indexes shown as justification. Turns are append-only.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Support  []int  `json:"support,omitempty"`
}

// ChallengeItem is a generated quiz question tied to the chunks it was
// grounded on. UserAnswer and Evaluation are filled in on submission.
type ChallengeItem struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Support    []int  `json:"support"`
	UserAnswer string `json:"user_answer,omitempty"`
	Evaluation string `json:"evaluation,omitempty"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	TopK      int    `json:"topK,omitempty"`
}

// ChallengeRequest is the body of POST /challenge.
type ChallengeRequest struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count,omitempty"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}
