package federated

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrInvalidToken     = errors.New("federated token rejected")
	ErrAudienceMismatch = errors.New("federated token audience mismatch")
)

// Identity is the subset of the provider's token claims the application
// cares about.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Verifier validates provider-issued ID tokens against the provider's
// tokeninfo endpoint.
type Verifier struct {
	TokenInfoURL string
	Audience     string
	Client       *http.Client
}

func New(tokenInfoURL, audience string) *Verifier {
	return &Verifier{
		TokenInfoURL: tokenInfoURL,
		Audience:     audience,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *Verifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	endpoint := v.TokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Identity{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("%w: status %d", ErrInvalidToken, resp.StatusCode)
	}

	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Aud           string `json:"aud"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Identity{}, fmt.Errorf("decode tokeninfo: %w", err)
	}
	if payload.Sub == "" || payload.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	if payload.EmailVerified != "" && payload.EmailVerified != "true" {
		return Identity{}, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	if v.Audience != "" && payload.Aud != v.Audience {
		return Identity{}, ErrAudienceMismatch
	}

	return Identity{Subject: payload.Sub, Email: payload.Email, Name: payload.Name}, nil
}
