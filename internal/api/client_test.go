package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetricsDecodesFullPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/metrics" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total_conversations_today": 42,
			"auto_resolved_today": 30,
			"auto_resolved_pct": 71.4,
			"avg_response_time_ms": 850,
			"top_intents": [{"intent": "booking_info", "count": 12}],
			"upsell_revenue": 120.5,
			"upsell_conversion_rate": 25.0,
			"outcomes": {"venta": 3, "en_curso": 7},
			"financial": {"booking_revenue": 900.0, "cost_per_escalation": 15.0},
			"hourly_distribution": [{"hour": 0, "count": 1}, {"hour": 1, "count": 4}],
			"upsell_by_offer": [{"offer_name": "Late checkout", "offered_count": 10, "accepted_count": 4}],
			"total_conversations_all_time": 1200,
			"auto_resolved_all_time_pct": 68.2
		}`))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL).Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}
	if snap.TotalConversationsToday != 42 {
		t.Errorf("TotalConversationsToday = %d, want 42", snap.TotalConversationsToday)
	}
	if snap.Outcomes == nil || snap.Outcomes.Venta != 3 || snap.Outcomes.EnCurso != 7 {
		t.Errorf("Outcomes = %+v, want venta=3 en_curso=7", snap.Outcomes)
	}
	if len(snap.Hourly) != 2 || snap.Hourly[1].Count != 4 {
		t.Errorf("Hourly = %+v", snap.Hourly)
	}
	if len(snap.TopIntents) != 1 || snap.TopIntents[0].Intent != "booking_info" {
		t.Errorf("TopIntents = %+v", snap.TopIntents)
	}
	if snap.Financial == nil || snap.Financial.CostPerEscalation != 15.0 {
		t.Errorf("Financial = %+v", snap.Financial)
	}
}

func TestMetricsOptionalSectionsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"total_conversations_today": 5,
			"auto_resolved_today": 2,
			"auto_resolved_pct": 40.0,
			"avg_response_time_ms": 0
		}`))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL).Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics() error: %v", err)
	}
	if snap.Outcomes != nil {
		t.Errorf("Outcomes = %+v, want nil", snap.Outcomes)
	}
	if snap.Hourly != nil {
		t.Errorf("Hourly = %+v, want nil", snap.Hourly)
	}
	if snap.UpsellByOffer != nil {
		t.Errorf("UpsellByOffer = %+v, want nil", snap.UpsellByOffer)
	}
	if snap.AvgResponseTimeMs != 0 {
		t.Errorf("AvgResponseTimeMs = %d, want 0", snap.AvgResponseTimeMs)
	}
}

func TestConversationsEmptyListIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL).Conversations(context.Background())
	if err != nil {
		t.Fatalf("Conversations() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("len = %d, want 0", len(list))
	}
}

func TestConversationEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"id": "x", "messages": []}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Conversation(context.Background(), "a/b c"); err != nil {
		t.Fatalf("Conversation() error: %v", err)
	}
	if gotPath != "/api/conversations/a%2Fb%20c" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestStatusFailureCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Conversation(context.Background(), "missing")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *Error", err)
	}
	if apiErr.Kind != ErrStatus || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("got kind=%v code=%d, want status/404", apiErr.Kind, apiErr.StatusCode)
	}
}

func TestParseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Metrics(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *Error", err)
	}
	if apiErr.Kind != ErrParse {
		t.Errorf("kind = %v, want parse", apiErr.Kind)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := NewClient(srv.URL).Metrics(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *Error", err)
	}
	if apiErr.Kind != ErrTransport {
		t.Errorf("kind = %v, want transport", apiErr.Kind)
	}
	if apiErr.Unwrap() == nil {
		t.Error("transport error lost its cause")
	}
}

func TestBaseURLNormalization(t *testing.T) {
	c := NewClient("http://example.test/")
	if c.BaseURL() != "http://example.test" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
	if NewClient("").BaseURL() != DefaultBaseURL {
		t.Errorf("empty base URL did not fall back to default")
	}
}
