package service

import (
	"context"
	"fmt"

	"docqa/internal/session"
	"docqa/internal/util"
)

// summaryPrefixRunes bounds how much of the document is sent to the
// model for summarization. Long documents are summarized from their
// prefix.
const summaryPrefixRunes = 10000

const summarySystemPrompt = "You summarize documents concisely, focusing on the main points and overall topic."

// Summarize generates the automatic summary for the session's document.
// No retrieval is involved; the model sees the document (or its prefix)
// directly. The reply is hard-capped at the configured word limit.
func (s *RAG) Summarize(ctx context.Context, sess *session.Session) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following document concisely in less than %d words:\n\n%s",
		s.summaryMaxWords,
		util.TruncateRunes(sess.Text, summaryPrefixRunes),
	)
	summary, err := s.llm.Chat(ctx, summarySystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	summary = util.TruncateWords(summary, s.summaryMaxWords)
	sess.SetSummary(summary)
	return summary, nil
}
