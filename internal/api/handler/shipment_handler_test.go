package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

type stubQueryService struct {
	getFn      func(ctx context.Context, id string) (*domain.AnnotatedShipment, error)
	listFn     func(ctx context.Context, filter ports.ListShipmentsFilter) ([]*domain.AnnotatedShipment, int64, error)
	statsFn    func(ctx context.Context) (*ports.ShipmentStats, error)
	lastFilter ports.ListShipmentsFilter
}

func (s *stubQueryService) Get(ctx context.Context, id string) (*domain.AnnotatedShipment, error) {
	return s.getFn(ctx, id)
}

func (s *stubQueryService) List(ctx context.Context, filter ports.ListShipmentsFilter) ([]*domain.AnnotatedShipment, int64, error) {
	s.lastFilter = filter
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *stubQueryService) Stats(ctx context.Context) (*ports.ShipmentStats, error) {
	return s.statsFn(ctx)
}

func TestShipmentHandler_List_ParsesFilters(t *testing.T) {
	e := newTestEcho()
	stub := &stubQueryService{}
	handler := NewShipmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet,
		"/v1/shipments?status=in_transit&cargo_type=pharma&origin=Lyon&high_risk=true&page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f := stub.lastFilter
	if f.Status != "in_transit" || f.CargoType != "pharma" || f.OriginCity != "Lyon" {
		t.Errorf("filters not forwarded: %+v", f)
	}
	if !f.HighRiskOnly || f.Page != 2 || f.Limit != 10 {
		t.Errorf("pagination/risk flags not forwarded: %+v", f)
	}
}

func TestShipmentHandler_List_EmptyResultIsArray(t *testing.T) {
	e := newTestEcho()
	handler := NewShipmentHandler(&stubQueryService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/shipments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if string(resp["shipments"]) != "[]" {
		t.Errorf("empty list must serialize as [], got %s", resp["shipments"])
	}
}

func TestShipmentHandler_Get_Success(t *testing.T) {
	e := newTestEcho()
	annotated := domain.Annotate(domain.ShipmentRecord{ID: "SHP-42", Status: domain.StatusDelivered}, nil)
	stub := &stubQueryService{
		getFn: func(_ context.Context, id string) (*domain.AnnotatedShipment, error) {
			if id != "SHP-42" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &annotated, nil
		},
	}
	handler := NewShipmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/shipments/SHP-42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("SHP-42")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestShipmentHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubQueryService{
		getFn: func(_ context.Context, _ string) (*domain.AnnotatedShipment, error) {
			return nil, domain.ErrShipmentNotFound
		},
	}
	handler := NewShipmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/shipments/SHP-MISSING", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("SHP-MISSING")

	_ = handler.Get(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestShipmentHandler_Stats(t *testing.T) {
	e := newTestEcho()
	stub := &stubQueryService{
		statsFn: func(_ context.Context) (*ports.ShipmentStats, error) {
			return &ports.ShipmentStats{
				Total:         12,
				ByStatus:      map[string]int64{"in_transit": 7, "delivered": 5},
				WithAnomalies: 4,
				HighSeverity:  2,
			}, nil
		},
	}
	handler := NewShipmentHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/shipments/stats/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp ports.ShipmentStats
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 12 || resp.HighSeverity != 2 {
		t.Errorf("unexpected stats payload: %+v", resp)
	}
}
