package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/config"
)

func testServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"test-embed"}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  the answer  "}}]}`))
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"test-model","object":"model"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srv *httptest.Server) *Client {
	return NewClient(&config.Config{
		LLMBaseURL: srv.URL + "/v1",
		APIKey:     "test-key",
		ChatModel:  "test-chat",
		EmbedModel: "test-embed",
		RateRPS:    100,
		RateBurst:  10,
	})
}

func TestEmbedding(t *testing.T) {
	c := testClient(testServer(t, http.StatusOK))
	vec, err := c.Embedding(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedding_ServerError(t *testing.T) {
	c := testClient(testServer(t, http.StatusInternalServerError))
	_, err := c.Embedding(context.Background(), "some text")
	assert.ErrorIs(t, err, ErrEmbedding)
}

func TestChat_TrimsReply(t *testing.T) {
	c := testClient(testServer(t, http.StatusOK))
	reply, err := c.Chat(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)
}

func TestChat_ServerError(t *testing.T) {
	c := testClient(testServer(t, http.StatusInternalServerError))
	_, err := c.Chat(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestListModels(t *testing.T) {
	c := testClient(testServer(t, http.StatusOK))
	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "test-model", models[0].ID)
}
