package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"narration-service/application/ports/outbound"
	"narration-service/config"
)

type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// oauthAuthorizer fetches a client-credentials token for calls to the
// platform content API.
type oauthAuthorizer struct {
	logger  outbound.LoggerPort
	fetcher ContentFetcher
	conf    *config.AuthorizerConfig
}

func NewOAuthAuthorizer(logger outbound.LoggerPort, fetcher ContentFetcher, conf *config.AuthorizerConfig) Authorizer {
	return &oauthAuthorizer{
		logger:  logger,
		fetcher: fetcher,
		conf:    conf,
	}
}

func (a *oauthAuthorizer) Authorize(ctx context.Context) (string, error) {
	clientCredentials := base64.StdEncoding.EncodeToString([]byte(a.conf.ClientID + ":" + a.conf.ClientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.TokenEndpoint,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		a.logger.Error(err, "Failed to create the token request")
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+clientCredentials)

	res, err := a.fetcher.FetchContent(req)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		a.logger.ErrorWithFields(fmt.Errorf("status %d", res.StatusCode), "Token endpoint returned non-OK status", map[string]interface{}{
			"status": res.StatusCode,
		})
		return "", fmt.Errorf("token endpoint returned status %d", res.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(res.Body, &token); err != nil {
		a.logger.Error(err, "Failed to unmarshal the token response")
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	return token.AccessToken, nil
}
