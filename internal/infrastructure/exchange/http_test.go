package exchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/agentgate/internal/domain"
)

func TestHTTPExchangerSendsTokenExchangeForm(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = r.PostForm
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "scoped-token",
			"scope":        "inventory:read inventory:write",
		})
	}))
	defer server.Close()

	e := NewHTTPExchanger(server.URL, "agentgate-cli", 5*time.Second)
	reply, err := e.Exchange(context.Background(), "user-token", domain.DomainInventory, []string{"inventory:read", "inventory:write"})
	if err != nil {
		t.Fatal(err)
	}

	wantForm := url.Values{
		"grant_type":         {"urn:ietf:params:oauth:grant-type:token-exchange"},
		"subject_token":      {"user-token"},
		"subject_token_type": {"urn:ietf:params:oauth:token-type:access_token"},
		"audience":           {"api://inventory-agent"},
		"scope":              {"inventory:read inventory:write"},
		"client_id":          {"agentgate-cli"},
	}
	if diff := cmp.Diff(wantForm, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	if !reply.Success {
		t.Fatalf("reply = %+v", reply)
	}
	if diff := cmp.Diff([]string{"inventory:read", "inventory:write"}, reply.Scopes); diff != "" {
		t.Fatalf("scopes mismatch (-want +got):\n%s", diff)
	}
	if reply.Audience != "api://inventory-agent" {
		t.Fatalf("audience = %q", reply.Audience)
	}
}

func TestHTTPExchangerReportsAccessDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "access_denied",
			"error_description": "policy forbids pricing:margin",
		})
	}))
	defer server.Close()

	e := NewHTTPExchanger(server.URL, "", 5*time.Second)
	reply, err := e.Exchange(context.Background(), "user-token", domain.DomainPricing, []string{"pricing:margin"})
	if err != nil {
		t.Fatal(err)
	}
	if !reply.AccessDenied {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.Error != "policy forbids pricing:margin" {
		t.Fatalf("reason = %q", reply.Error)
	}
}

func TestHTTPExchangerForbiddenStatusIsDenial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	e := NewHTTPExchanger(server.URL, "", 5*time.Second)
	reply, err := e.Exchange(context.Background(), "user-token", domain.DomainSales, []string{"sales:read"})
	if err != nil {
		t.Fatal(err)
	}
	if !reply.AccessDenied {
		t.Fatalf("403 should classify as denial, got %+v", reply)
	}
}

func TestHTTPExchangerGrantsRequestedScopesWhenEchoMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "scoped-token"})
	}))
	defer server.Close()

	e := NewHTTPExchanger(server.URL, "", 5*time.Second)
	reply, err := e.Exchange(context.Background(), "user-token", domain.DomainCustomer, []string{"customer:read"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"customer:read"}, reply.Scopes); diff != "" {
		t.Fatalf("scopes mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPExchangerRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	e := NewHTTPExchanger(server.URL, "", 5*time.Second)
	if _, err := e.Exchange(context.Background(), "user-token", domain.DomainSales, []string{"sales:read"}); err == nil {
		t.Fatal("expected decode error")
	}
}
