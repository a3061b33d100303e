package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestDistanceParsesElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"distance": {"text": "8.0 km", "value": 8000},
				"duration": {"text": "18 mins", "value": 1080}
			}]}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	result, err := client.Distance(context.Background(), LatLng{12.97, 77.59}, LatLng{12.93, 77.62})
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if result.Meters != 8000 {
		t.Fatalf("meters = %d, want 8000", result.Meters)
	}
	if result.KM() != 8.0 {
		t.Fatalf("km = %f, want 8.0", result.KM())
	}
	if result.DistanceText != "8.0 km" || result.DurationText != "18 mins" {
		t.Fatalf("unexpected texts: %q / %q", result.DistanceText, result.DurationText)
	}
}

func TestDistanceDependencyErrorOnElementFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "OK", "rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Distance(context.Background(), LatLng{}, LatLng{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDistanceDependencyErrorOnHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Distance(context.Background(), LatLng{}, LatLng{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
