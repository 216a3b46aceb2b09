package adapters

import (
	"io"
	"net/http"
	"time"

	"narration-service/application/ports/outbound"
)

type FetchedContent struct {
	StatusCode int
	Body       []byte
}

// ContentFetcher executes an HTTP request and returns the status and body.
// Transport and read failures are errors; non-success statuses are not,
// since callers branch on them.
type ContentFetcher interface {
	FetchContent(req *http.Request) (*FetchedContent, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) (*FetchedContent, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
				"method": req.Method,
				"URL":    req.URL.String(),
			})
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return &FetchedContent{
		StatusCode: res.StatusCode,
		Body:       payload,
	}, nil
}
