// Package authclient is a small client SDK for the auth service. Consumers
// use it to delegate password checks and to pick up the session cookies the
// service issues.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

var (
	ErrUnauthorized = errors.New("authclient: invalid credentials")
	ErrBadResponse  = errors.New("authclient: unexpected auth service response")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Login delegates the credential check to the auth service and returns the
// token pair from the Set-Cookie response headers.
func (c *Client) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	body, err := json.Marshal(map[string]string{
		"user_login": login,
		"password":   password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	pair := &TokenPair{}
	for _, cookie := range resp.Cookies() {
		switch cookie.Name {
		case accessTokenCookie:
			pair.AccessToken = cookie.Value
		case refreshTokenCookie:
			pair.RefreshToken = cookie.Value
		}
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token cookies missing", ErrBadResponse)
	}
	return pair, nil
}
