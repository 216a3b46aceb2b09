package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narration-service/config"
	"narration-service/domain"
)

type stubAuthorizer struct {
	token string
	err   error
}

func (s *stubAuthorizer) Authorize(_ context.Context) (string, error) {
	return s.token, s.err
}

func newPostSource(serverURL string) *postContentSource {
	fetcher := NewContentFetcher(nopLogger{})
	source := NewPostContentSource(nopLogger{}, fetcher, &stubAuthorizer{token: "token-123"},
		&config.ContentConfig{ApiUrl: serverURL})
	return source.(*postContentSource)
}

func TestFetchReturnsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/post-1", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]string{
			"id":        "post-1",
			"title":     "My Post",
			"body":      "The post body.",
			"slug":      "my-post",
			"updatedAt": "2026-08-01T10:00:00Z",
		})
	}))
	defer server.Close()

	content, err := newPostSource(server.URL).Fetch(context.Background(), "post-1")
	require.NoError(t, err)

	assert.Equal(t, "post-1", content.ID)
	assert.Equal(t, "My Post", content.Title)
	assert.Equal(t, "The post body.", content.Body)
	assert.Equal(t, "my-post", content.Slug)
	assert.Equal(t, "My Post. The post body.", content.NarrationText())
	assert.False(t, content.UpdatedAt.IsZero())
}

func TestFetchMissingPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newPostSource(server.URL).Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestFetchPostWithoutSlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"id":    "post-1",
			"title": "My Post",
			"body":  "The post body.",
		})
	}))
	defer server.Close()

	_, err := newPostSource(server.URL).Fetch(context.Background(), "post-1")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestFetchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newPostSource(server.URL).Fetch(context.Background(), "post-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrContentNotFound)
}
