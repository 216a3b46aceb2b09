package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

type postResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updatedAt"`
}

type postContentSource struct {
	logger        outbound.LoggerPort
	fetcher       ContentFetcher
	authorizer    Authorizer
	contentConfig *config.ContentConfig
}

func NewPostContentSource(logger outbound.LoggerPort, fetcher ContentFetcher, authorizer Authorizer, contentConfig *config.ContentConfig) outbound.ContentSourcePort {
	return &postContentSource{
		logger:        logger,
		fetcher:       fetcher,
		authorizer:    authorizer,
		contentConfig: contentConfig,
	}
}

func (p *postContentSource) Fetch(ctx context.Context, contentID string) (*domain.Content, error) {
	token, err := p.authorizer.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/posts/%s", p.contentConfig.ApiUrl, contentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	res, err := p.fetcher.FetchContent(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrContentNotFound
	}
	if res.StatusCode != http.StatusOK {
		p.logger.ErrorWithFields(nil, "Content API returned non-OK status", map[string]interface{}{
			"contentId": contentID,
			"status":    res.StatusCode,
		})
		return nil, fmt.Errorf("content api returned status %d", res.StatusCode)
	}

	var post postResponse
	if err := json.Unmarshal(res.Body, &post); err != nil {
		return nil, fmt.Errorf("failed to parse the content response: %w", err)
	}

	// Items without a narratable body or a storage-safe slug behave as
	// absent rather than producing broken assets downstream.
	if post.Title == "" || post.Body == "" || post.Slug == "" {
		return nil, domain.ErrContentNotFound
	}

	content := &domain.Content{
		ID:    post.ID,
		Title: post.Title,
		Body:  post.Body,
		Slug:  post.Slug,
	}
	if content.ID == "" {
		content.ID = contentID
	}
	if post.UpdatedAt != "" {
		if updatedAt, err := time.Parse(time.RFC3339, post.UpdatedAt); err == nil {
			content.UpdatedAt = updatedAt
		}
	}

	return content, nil
}
