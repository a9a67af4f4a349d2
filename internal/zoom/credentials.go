package zoom

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/logging"
)

// defaultExpiresIn is used when the token endpoint omits expires_in.
const defaultExpiresIn = 3600

// RefreshToken exchanges the client's refresh token for a new access token.
//
// Exactly one request is sent to the token endpoint, authenticated with
// HTTP Basic client credentials. On success the client's access token is
// replaced, and so is its refresh token when Zoom issued a new one. On any
// failure the credentials are left untouched.
func (c *Client) RefreshToken(ctx context.Context, clientID, clientSecret string) Result {
	ctx, span := instrumentation.StartZoomSpan(ctx, instrumentation.OperationRefreshToken)
	defer span.End()

	if c.creds.RefreshToken == "" {
		c.metrics.RecordTokenRefresh(ctx, instrumentation.RefreshResultSkipped)
		apiErr := NewAPIError(KindNoRefreshToken, msgNoRefreshToken)
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: c.tokenURL,
			// An explicit style avoids the library's second attempt with
			// credentials in the body.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	c.logger.Debug("refreshing zoom access token", logging.Token(c.creds.RefreshToken))

	endpoint := instrumentation.EndpointTemplate(tokenPath(c.tokenURL))
	start := time.Now()

	rt := &tokenTransport{
		base:         c.httpClient.Transport,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	hc := &http.Client{Transport: rt, Timeout: c.httpClient.Timeout}

	// The stored token has no access token, so the source always refreshes.
	tok, err := config.TokenSource(
		context.WithValue(ctx, oauth2.HTTPClient, hc),
		&oauth2.Token{RefreshToken: c.creds.RefreshToken},
	).Token()

	// Only 200 is a successful refresh; the library accepts any 2xx.
	if rt.status != 0 && rt.status != http.StatusOK {
		c.metrics.RecordZoomRequest(ctx, instrumentation.OperationRefreshToken, endpoint, rt.status, time.Since(start))
		c.metrics.RecordTokenRefresh(ctx, instrumentation.RefreshResultRejected)
		c.logger.Warn("zoom token refresh rejected", logging.StatusCode(rt.status))

		apiErr := refreshRejected(rt.status, rt.body)
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}
	if err != nil {
		c.metrics.RecordZoomRequest(ctx, instrumentation.OperationRefreshToken, endpoint, rt.status, time.Since(start))
		c.metrics.RecordTokenRefresh(ctx, instrumentation.RefreshResultFailure)
		c.logger.Warn("zoom token refresh failed", logging.Err(err))

		apiErr := NewAPIError(KindTransport, err.Error())
		instrumentation.SetSpanError(span, err)
		return Failure(apiErr)
	}

	c.metrics.RecordZoomRequest(ctx, instrumentation.OperationRefreshToken, endpoint, http.StatusOK, time.Since(start))
	c.metrics.RecordTokenRefresh(ctx, instrumentation.RefreshResultSuccess)

	c.creds.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.creds.RefreshToken = tok.RefreshToken
	}
	c.creds.ClientID = clientID
	c.creds.ClientSecret = clientSecret

	expiresIn := expiresInSeconds(tok)
	expiresAt := c.now().Add(time.Duration(expiresIn) * time.Second)

	c.logger.Info("zoom access token refreshed",
		logging.Token(c.creds.AccessToken),
		"expires_in", expiresIn,
	)
	instrumentation.SetSpanSuccess(span)

	return Success(TokenRefresh{
		AccessToken:  c.creds.AccessToken,
		RefreshToken: c.creds.RefreshToken,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
		ExpiresIn:    expiresIn,
		Status:       statusSuccess,
	})
}

// maxTokenResponseSize bounds how much of a token response is buffered.
const maxTokenResponseSize = 1 << 20

// tokenTransport sends the token request with unescaped Basic client
// credentials and keeps the response status and body for the caller.
type tokenTransport struct {
	base         http.RoundTripper
	clientID     string
	clientSecret string

	status int
	body   []byte
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Basic "+basicCredentials(t.clientID, t.clientSecret))

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	t.status = resp.StatusCode
	t.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func basicCredentials(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}

// expiresInSeconds reads expires_in from the raw token response.
func expiresInSeconds(tok *oauth2.Token) int64 {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if tok.ExpiresIn > 0 {
		return tok.ExpiresIn
	}
	return defaultExpiresIn
}

func tokenPath(tokenURL string) string {
	u, err := url.Parse(tokenURL)
	if err != nil {
		return ""
	}
	return u.EscapedPath()
}
