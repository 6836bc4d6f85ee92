package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"docqa/internal/model"
	"docqa/internal/session"
	"docqa/internal/util"
)

// challengePrefixRunes bounds the document sample used for question
// generation.
const challengePrefixRunes = 15000

const challengeSystemPrompt = "You generate comprehension questions about documents."

const evaluateSystemPrompt = "You evaluate a user's answer to a question about a document, " +
	"judging it ONLY against the provided document context."

// GenerateChallenges asks the model for comprehension questions over the
// document, then grounds each parsed question in its supporting chunks
// via retrieval. Questions that retrieve nothing are dropped, so every
// stored item has at least one supporting chunk.
func (s *RAG) GenerateChallenges(ctx context.Context, sess *session.Session, count int) ([]model.ChallengeItem, error) {
	if count <= 0 {
		count = s.challengeCount
	}
	prompt := fmt.Sprintf(
		"Based on the following document, generate %d unique, logic-based or comprehension-focused questions. "+
			"These questions should require understanding and reasoning beyond simple fact retrieval. "+
			"Each question must be answerable from the document. "+
			"Format each question as \"Q[Number]: [Question Text]\".\n\nDocument:\n%s\n\nQuestions:",
		count,
		util.TruncateRunes(sess.Text, challengePrefixRunes),
	)
	raw, err := s.llm.Chat(ctx, challengeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	questions := parseQuestions(raw, count)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions could be parsed from the model output")
	}

	var items []model.ChallengeItem
	for _, q := range questions {
		relevant, err := s.Retrieve(ctx, sess, q, s.topK)
		if err != nil {
			return nil, err
		}
		if len(relevant) == 0 {
			log.Printf("challenge question dropped, no supporting chunks: %q", q)
			continue
		}
		support := make([]int, len(relevant))
		for i, r := range relevant {
			support[i] = r.Chunk.Index
		}
		items = append(items, model.ChallengeItem{
			ID:       uuid.New().String(),
			Question: q,
			Support:  support,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no generated question could be grounded in the document")
	}

	sess.SetChallenges(items)
	return items, nil
}

// Evaluate scores a submitted answer against the same chunks the
// question was grounded on and returns the feedback plus those chunks.
func (s *RAG) Evaluate(ctx context.Context, sess *session.Session, questionID, userAnswer string) (string, []model.Chunk, error) {
	item, err := sess.Challenge(questionID)
	if err != nil {
		return "", nil, err
	}
	chunks := supportChunks(sess, item.Support)
	if len(chunks) == 0 {
		return "", nil, fmt.Errorf("supporting chunks for question %s are gone", questionID)
	}

	var ctxText strings.Builder
	for _, ch := range chunks {
		fmt.Fprintf(&ctxText, "[chunk %d]\n%s\n\n", ch.Index, ch.Text)
	}
	prompt := fmt.Sprintf(
		"Question: %s\nUser's Answer: %s\n\nDocument Context:\n%s\n"+
			"State clearly if the answer is Correct, Partially Correct, or Incorrect. "+
			"Then provide a brief justification explaining why, citing information from the document context.\n\n"+
			"Response format:\nEvaluation: Correct/Partially Correct/Incorrect\nJustification: ...",
		item.Question, userAnswer, ctxText.String(),
	)
	feedback, err := s.llm.Chat(ctx, evaluateSystemPrompt, prompt)
	if err != nil {
		return "", nil, err
	}
	if err := sess.RecordEvaluation(questionID, userAnswer, feedback); err != nil {
		return "", nil, err
	}
	return feedback, chunks, nil
}

// parseQuestions extracts up to n question texts from lines shaped like
// "Q1: ..." in the model output.
func parseQuestions(raw string, n int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Q") || !strings.Contains(line, ":") {
			continue
		}
		q := strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
		if q != "" {
			out = append(out, q)
		}
		if len(out) >= n {
			break
		}
	}
	return out
}
