package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"ignite/internal/config"
)

// TokenSource yields a bearer token for one API call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ErrNoToken indicates no credential is configured at all.
var ErrNoToken = errors.New("auth: no token configured")

// FromConfig builds the token source the configuration describes: an OAuth
// refresh-token source when auth.token_url is set, otherwise a static token.
func FromConfig(cfg *config.Config) (TokenSource, error) {
	if cfg.UsesOAuth() {
		return NewRefreshSource(RefreshOptions{
			TokenURL:     cfg.Auth.TokenURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RefreshToken: cfg.Auth.RefreshToken,
		}), nil
	}
	return NewStaticSource(cfg.Auth.Token)
}

type staticSource struct {
	token string
}

// NewStaticSource returns a source that always yields the given token.
func NewStaticSource(token string) (TokenSource, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}
	return &staticSource{token: token}, nil
}

func (s *staticSource) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

// RefreshOptions configure an OAuth refresh-token source.
type RefreshOptions struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type refreshSource struct {
	conf    *oauth2.Config
	refresh string
}

// NewRefreshSource returns a source that exchanges a long-lived refresh token
// for a short-lived access token on every call.
func NewRefreshSource(opts RefreshOptions) TokenSource {
	return &refreshSource{
		conf: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: opts.TokenURL},
		},
		refresh: opts.RefreshToken,
	}
}

func (s *refreshSource) Token(ctx context.Context) (string, error) {
	ts := s.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: s.refresh})
	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("auth: refresh token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("auth: token endpoint returned an empty access token")
	}
	return tok.AccessToken, nil
}
