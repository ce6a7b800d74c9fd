package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"activity-planner/internal/platform/httpclient"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/ports/identity"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

// Config del cliente Odin.
// BaseURL y APIKey normalmente vendrán de env vars en quien lo instancie.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	// Timeout HTTP del cliente.
	Timeout time.Duration
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

func (c *Client) headers(extra map[string]string) map[string]string {
	out := map[string]string{c.apiKeyHeader: c.apiKey}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// VerifyToken llama a Odin para verificar un token y traer claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrOdinUnauthorized
	}

	var out struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify",
		c.headers(map[string]string{"Authorization": "Bearer " + token}),
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var herr *httpclient.HTTPError
		if errors.As(err, &herr) && (herr.StatusCode == http.StatusUnauthorized || herr.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, ErrOdinUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("odin response missing user_id")
	}

	return auth.Claims{
		UserID:        out.UserID,
		Email:         strings.TrimSpace(out.Email),
		EmailVerified: out.EmailVerified,
	}, nil
}

// Lookup implementa identity.Provider: batch lookup por email o uid.
// Devuelve por separado los encontrados y los que aún no tienen cuenta.
func (c *Client) Lookup(ctx context.Context, refs []identity.Ref) (identity.Result, error) {
	if !c.IsConfigured() {
		return identity.Result{}, ErrOdinNotConfigured
	}
	if len(refs) == 0 {
		return identity.Result{}, nil
	}

	type refPayload struct {
		UID   string `json:"uid,omitempty"`
		Email string `json:"email,omitempty"`
	}
	in := struct {
		Refs []refPayload `json:"refs"`
	}{}
	for _, r := range refs {
		in.Refs = append(in.Refs, refPayload{
			UID:   strings.TrimSpace(r.UID),
			Email: strings.TrimSpace(r.Email),
		})
	}

	var out struct {
		Found []struct {
			UID         string `json:"uid"`
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
			PhotoURL    string `json:"photo_url"`
		} `json:"found"`
		NotFound []refPayload `json:"not_found"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/users/lookup", c.headers(nil), in, &out)
	if err != nil {
		return identity.Result{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
	}

	res := identity.Result{}
	for _, u := range out.Found {
		res.Found = append(res.Found, identity.User{
			UID:         u.UID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			PhotoURL:    u.PhotoURL,
		})
	}
	for _, r := range out.NotFound {
		res.NotFound = append(res.NotFound, identity.Ref{UID: r.UID, Email: r.Email})
	}
	return res, nil
}
