package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

func TestShipmentQueryService_List_NormalizesPagination(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := NewShipmentQueryService(repo, discardLogger)

	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"zero values get defaults", 0, 0, 1, 20},
		{"negative page clamped", -3, 10, 1, 10},
		{"oversized limit capped", 2, 500, 2, 100},
		{"valid values pass through", 3, 25, 3, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.List(context.Background(), ports.ListShipmentsFilter{Page: tc.page, Limit: tc.limit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.lastFilter.Page != tc.wantPage {
				t.Errorf("page: got %d, want %d", repo.lastFilter.Page, tc.wantPage)
			}
			if repo.lastFilter.Limit != tc.wantLimit {
				t.Errorf("limit: got %d, want %d", repo.lastFilter.Limit, tc.wantLimit)
			}
		})
	}
}

func TestShipmentQueryService_Get_NotFound(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := NewShipmentQueryService(repo, discardLogger)

	_, err := svc.Get(context.Background(), "SHP-MISSING")
	if !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestShipmentQueryService_Stats(t *testing.T) {
	repo := newStubShipmentRepo()
	annotated := domain.Annotate(speedingRecord("SHP-200"), []domain.Anomaly{
		{Type: domain.AnomalySpeedViolation, Severity: domain.SeverityHigh},
	})
	repo.byID["SHP-200"] = &annotated
	svc := NewShipmentQueryService(repo, discardLogger)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 1 || stats.WithAnomalies != 1 || stats.HighSeverity != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
