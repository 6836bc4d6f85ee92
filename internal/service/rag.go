// Package service implements the document pipeline: ingestion,
// retrieval-augmented answering, summarization and challenge mode.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/model"
	"docqa/internal/session"
	"docqa/internal/store"
)

// NoContextAnswer is the designed response when retrieval finds nothing
// relevant. It is an answer, not an error.
const NoContextAnswer = "The document does not contain information relevant to this question."

const askSystemPrompt = "You are a helpful assistant. Answer the question ONLY based on the provided context from the document. " +
	"Do not make up any information. If the answer cannot be found in the context, state " +
	"\"The information is not directly available in the provided document context.\""

// LLM is the external generation/embedding capability the pipeline
// depends on. *llm.Client satisfies it; tests substitute a stub.
type LLM interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
	Chat(ctx context.Context, system, user string) (string, error)
}

// RAG wires the chunker, the vector index and the LLM into the
// operations exposed over HTTP.
type RAG struct {
	llm      LLM
	splitter *chunker.Chunker

	topK            int
	minScore        float64
	challengeCount  int
	summaryMaxWords int
}

// NewRAG builds the service from config.
func NewRAG(llm LLM, cfg *config.Config) *RAG {
	return &RAG{
		llm:             llm,
		splitter:        chunker.New(cfg.ChunkSize, cfg.ChunkOverlap),
		topK:            cfg.TopK,
		minScore:        cfg.MinScore,
		challengeCount:  cfg.ChallengeCount,
		summaryMaxWords: cfg.SummaryMaxWords,
	}
}

// IngestResult reports what happened to a document's chunks during
// ingestion.
type IngestResult struct {
	ChunksTotal int
	ChunksSaved int
}

// Ingest chunks the extracted text, embeds every chunk and loads the
// session with a fresh index. Chunks whose embedding call fails are
// skipped and logged; if none survive, ingestion fails.
func (s *RAG) Ingest(ctx context.Context, sess *session.Session, docID, docName, text string) (IngestResult, error) {
	chunks := s.splitter.Split(docID, text)
	if len(chunks) == 0 {
		return IngestResult{}, fmt.Errorf("no chunks created from document %s", docName)
	}

	idx := store.NewIndex()
	var (
		kept    []model.Chunk
		vectors [][]float32
	)
	for _, ch := range chunks {
		vec, err := s.llm.Embedding(ctx, ch.Text)
		if err != nil {
			log.Printf("embedding error (%s chunk %d): %v", docName, ch.Index, err)
			continue
		}
		if len(vectors) == 0 {
			if err := idx.Init(len(vec)); err != nil {
				return IngestResult{}, err
			}
		}
		kept = append(kept, ch)
		vectors = append(vectors, vec)
	}
	if len(kept) == 0 {
		return IngestResult{}, fmt.Errorf("embedding failed for every chunk of %s", docName)
	}
	if err := idx.Upsert(kept, vectors); err != nil {
		return IngestResult{}, err
	}

	sess.SetDocument(docID, docName, text, idx)
	return IngestResult{ChunksTotal: len(chunks), ChunksSaved: len(kept)}, nil
}

// Retrieve embeds the query and returns the topK most similar chunks of
// the session's document, dropping anything below the relevance
// threshold. An empty result means the document has nothing relevant.
func (s *RAG) Retrieve(ctx context.Context, sess *session.Session, query string, topK int) ([]model.ScoredChunk, error) {
	if topK <= 0 {
		topK = s.topK
	}
	vec, err := s.llm.Embedding(ctx, query)
	if err != nil {
		return nil, err
	}
	results, err := sess.Index.Search(vec, topK)
	if err != nil {
		return nil, err
	}
	relevant := results[:0]
	for _, r := range results {
		if r.Score >= s.minScore {
			relevant = append(relevant, r)
		}
	}
	return relevant, nil
}

// Ask answers a question from retrieved context plus prior turns. The
// returned chunks are exactly the ones used to build the prompt, shown
// to the user as justification. Every exchange is appended to the
// session history, including the not-found path.
func (s *RAG) Ask(ctx context.Context, sess *session.Session, question string, topK int) (string, []model.ScoredChunk, error) {
	relevant, err := s.Retrieve(ctx, sess, question, topK)
	if err != nil {
		return "", nil, err
	}
	if len(relevant) == 0 {
		sess.AppendTurn(model.ConversationTurn{Question: question, Answer: NoContextAnswer})
		return NoContextAnswer, nil, nil
	}

	prompt := buildAskPrompt(question, relevant, sess.Turns())
	answer, err := s.llm.Chat(ctx, askSystemPrompt, prompt)
	if err != nil {
		return "", nil, err
	}

	support := make([]int, len(relevant))
	for i, r := range relevant {
		support[i] = r.Chunk.Index
	}
	sess.AppendTurn(model.ConversationTurn{Question: question, Answer: answer, Support: support})
	return answer, relevant, nil
}

func buildAskPrompt(question string, relevant []model.ScoredChunk, history []model.ConversationTurn) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, t := range history {
			b.WriteString("Q: " + t.Question + "\nA: " + t.Answer + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Context from document:\n")
	for _, r := range relevant {
		fmt.Fprintf(&b, "[chunk %d]\n%s\n\n", r.Chunk.Index, r.Chunk.Text)
	}
	b.WriteString("Question: " + question + "\n\nYour Answer:")
	return b.String()
}

// supportChunks resolves stored chunk indexes against the session's
// current chunk collection.
func supportChunks(sess *session.Session, idxs []int) []model.Chunk {
	all := sess.Index.Chunks()
	byIndex := make(map[int]model.Chunk, len(all))
	for _, ch := range all {
		byIndex[ch.Index] = ch
	}
	var out []model.Chunk
	for _, i := range idxs {
		if ch, ok := byIndex[i]; ok {
			out = append(out, ch)
		}
	}
	return out
}
