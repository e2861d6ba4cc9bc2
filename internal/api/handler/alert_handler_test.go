package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

type stubAlertService struct {
	alerts    []*domain.Alert
	lastLimit int
}

func (s *stubAlertService) Raise(_ context.Context, _ *domain.AnnotatedShipment) (int, error) {
	return 0, nil
}

func (s *stubAlertService) ListRecent(_ context.Context, limit int) ([]*domain.Alert, error) {
	s.lastLimit = limit
	return s.alerts, nil
}

func TestAlertHandler_List_ForwardsLimit(t *testing.T) {
	e := newTestEcho()
	stub := &stubAlertService{
		alerts: []*domain.Alert{{
			ID:         "ALT-DEADBEEF",
			ShipmentID: "SHP-1",
			Type:       domain.AnomalyPotentialFraud,
			Priority:   domain.PriorityHigh,
			RiskScore:  0.9,
			CreatedAt:  time.Now().UTC(),
		}},
	}
	handler := NewAlertHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/alerts?limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastLimit != 5 {
		t.Errorf("limit not forwarded: %d", stub.lastLimit)
	}
}

func TestAlertHandler_List_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	handler := NewAlertHandler(&stubAlertService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/alerts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" && body != "[]" {
		t.Errorf("empty alert feed must serialize as [], got %q", body)
	}
}
