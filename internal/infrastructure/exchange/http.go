package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/agentgate/internal/domain"
	"github.com/doeshing/agentgate/internal/ports"
)

const tokenExchangeGrantType = "urn:ietf:params:oauth:grant-type:token-exchange"

// HTTPExchanger performs an RFC 8693 token exchange against a remote identity
// provider. Each call posts one form-encoded request scoped to a single agent
// audience.
type HTTPExchanger struct {
	endpoint   string
	clientID   string
	httpClient *http.Client
}

func NewHTTPExchanger(endpoint, clientID string, timeout time.Duration) *HTTPExchanger {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPExchanger{
		endpoint:   endpoint,
		clientID:   clientID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (e *HTTPExchanger) Name() string {
	return "http"
}

func (e *HTTPExchanger) Exchange(ctx context.Context, userToken string, d domain.AgentDomain, scopes []string) (domain.ExchangeReply, error) {
	form := url.Values{}
	form.Set("grant_type", tokenExchangeGrantType)
	form.Set("subject_token", userToken)
	form.Set("subject_token_type", "urn:ietf:params:oauth:token-type:access_token")
	form.Set("audience", audienceFor(d))
	form.Set("scope", strings.Join(scopes, " "))
	if e.clientID != "" {
		form.Set("client_id", e.clientID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.ExchangeReply{}, err
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.ExchangeReply{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ExchangeReply{}, err
	}

	var payload struct {
		AccessToken      string `json:"access_token"`
		Scope            string `json:"scope"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.ExchangeReply{}, fmt.Errorf("decode exchange response: %w", err)
	}

	if payload.Error != "" || resp.StatusCode >= 400 {
		reason := payload.ErrorDescription
		if reason == "" {
			reason = payload.Error
		}
		if reason == "" {
			reason = resp.Status
		}
		return domain.ExchangeReply{
			AccessDenied: payload.Error == "access_denied" || resp.StatusCode == http.StatusForbidden,
			Error:        reason,
		}, nil
	}

	granted := scopes
	if payload.Scope != "" {
		granted = strings.Fields(payload.Scope)
	}
	return domain.ExchangeReply{
		Success:  true,
		Scopes:   granted,
		Audience: audienceFor(d),
	}, nil
}

var _ ports.TokenExchanger = (*HTTPExchanger)(nil)
