package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/af-corp/converse-gateway/internal/types"
)

func TestHTTPSearchClientPostsTurn(t *testing.T) {
	var got searchRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode search request: %v", err)
		}
		io.WriteString(w, "search result text")
	}))
	defer srv.Close()

	c := NewHTTPSearchClient(srv.URL, 5*time.Second)
	model := &types.ModelConfig{ID: "gpt-4o", SearchModeEnabled: true}
	opts := Options{
		SearchMode:      types.SearchModeIntelligent,
		Prompt:          "be thorough",
		ForcedAgentType: "researcher",
		User:            &types.UserIdentity{ID: "user-1"},
	}

	out, err := c.Search(context.Background(), model, textMessages("find this"), opts)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	defer out.Close()

	body, _ := io.ReadAll(out.Body)
	if string(body) != "search result text" {
		t.Errorf("body = %q", body)
	}
	if got.Model != "gpt-4o" || got.SearchMode != "INTELLIGENT" || got.ForcedAgentType != "researcher" {
		t.Errorf("request body = %+v", got)
	}
	if got.User == "" {
		t.Error("user audit blob missing from search request")
	}
}

func TestHTTPSearchClientEmptyEndpoint(t *testing.T) {
	c := NewHTTPSearchClient("", time.Second)
	_, err := c.Search(context.Background(), &types.ModelConfig{ID: "m"}, textMessages("hi"), Options{})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	perr, ok := err.(*types.PipelineError)
	if !ok || perr.Code != types.CodeConfigurationError {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

func TestHTTPSearchClientUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPSearchClient(srv.URL, time.Second)
	_, err := c.Search(context.Background(), &types.ModelConfig{ID: "m"}, textMessages("hi"), Options{})
	if err == nil {
		t.Fatal("expected provider error")
	}
	perr, ok := err.(*types.PipelineError)
	if !ok || perr.Code != types.CodeProviderError {
		t.Errorf("expected PROVIDER_ERROR, got %v", err)
	}
}
