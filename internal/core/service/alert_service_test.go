package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubAlertRepo struct {
	alerts    []*domain.Alert
	insertErr error
	lastLimit int // limit passed to the last ListRecent call
}

func (r *stubAlertRepo) Insert(_ context.Context, a *domain.Alert) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *a
	r.alerts = append(r.alerts, &clone)
	return nil
}

func (r *stubAlertRepo) ListRecent(_ context.Context, limit int) ([]*domain.Alert, error) {
	r.lastLimit = limit
	if limit > len(r.alerts) {
		limit = len(r.alerts)
	}
	return r.alerts[:limit], nil
}

type stubDeduper struct {
	marked   map[string]bool
	checkErr error
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{marked: make(map[string]bool)}
}

func (d *stubDeduper) key(shipmentID string, typ domain.AnomalyType, ts time.Time) string {
	return fmt.Sprintf("%s|%s|%d", shipmentID, typ, ts.Unix())
}

func (d *stubDeduper) IsDuplicate(_ context.Context, shipmentID string, typ domain.AnomalyType, ts time.Time) (bool, error) {
	if d.checkErr != nil {
		return false, d.checkErr
	}
	return d.marked[d.key(shipmentID, typ, ts)], nil
}

func (d *stubDeduper) Mark(_ context.Context, shipmentID string, typ domain.AnomalyType, ts time.Time) error {
	d.marked[d.key(shipmentID, typ, ts)] = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func annotatedWith(id string, anomalies ...domain.Anomaly) *domain.AnnotatedShipment {
	rec := cleanRecord(id)
	annotated := domain.Annotate(rec, anomalies)
	return &annotated
}

func anomalyAt(typ domain.AnomalyType, sev domain.Severity, ts time.Time) domain.Anomaly {
	return domain.Anomaly{
		Type:        typ,
		Severity:    sev,
		Description: "test anomaly",
		Timestamp:   ts,
	}
}

// ---------------------------------------------------------------------------
// Raise tests
// ---------------------------------------------------------------------------

func TestAlertService_Raise_HighSeverityOnly(t *testing.T) {
	repo := &stubAlertRepo{}
	svc := NewAlertService(repo, newStubDeduper(), discardLogger)

	annotated := annotatedWith("SHP-100",
		anomalyAt(domain.AnomalySpeedViolation, domain.SeverityLow, fixtureStart),
		anomalyAt(domain.AnomalyUnusualStop, domain.SeverityMedium, fixtureStart.Add(time.Hour)),
		anomalyAt(domain.AnomalyPotentialFraud, domain.SeverityHigh, fixtureStart.Add(2*time.Hour)),
	)

	raised, err := svc.Raise(context.Background(), annotated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raised != 1 {
		t.Fatalf("only the high-severity anomaly should alert, got %d", raised)
	}
	if len(repo.alerts) != 1 {
		t.Fatalf("expected 1 stored alert, got %d", len(repo.alerts))
	}

	alert := repo.alerts[0]
	if alert.ShipmentID != "SHP-100" {
		t.Errorf("wrong shipment id: %s", alert.ShipmentID)
	}
	if alert.Type != domain.AnomalyPotentialFraud {
		t.Errorf("wrong anomaly type: %s", alert.Type)
	}
	if alert.Priority != domain.PriorityHigh {
		t.Errorf("expected high priority, got %s", alert.Priority)
	}
	if alert.RiskScore < 0.8 {
		t.Errorf("risk score %f below alert threshold", alert.RiskScore)
	}
	if !strings.HasPrefix(alert.ID, "ALT-") || len(alert.ID) != 12 {
		t.Errorf("alert id format wrong: %s", alert.ID)
	}
}

func TestAlertService_Raise_DeduplicatesOnReanalysis(t *testing.T) {
	repo := &stubAlertRepo{}
	dedup := newStubDeduper()
	svc := NewAlertService(repo, dedup, discardLogger)

	annotated := annotatedWith("SHP-101",
		anomalyAt(domain.AnomalyTemperatureBreach, domain.SeverityHigh, fixtureStart),
	)

	first, err := svc.Raise(context.Background(), annotated)
	if err != nil {
		t.Fatalf("first raise failed: %v", err)
	}
	second, err := svc.Raise(context.Background(), annotated)
	if err != nil {
		t.Fatalf("second raise failed: %v", err)
	}

	if first != 1 || second != 0 {
		t.Errorf("expected 1 then 0 alerts raised, got %d then %d", first, second)
	}
	if len(repo.alerts) != 1 {
		t.Errorf("re-analysis must not duplicate alerts, stored %d", len(repo.alerts))
	}
}

func TestAlertService_Raise_DedupCheckFailureRaisesAnyway(t *testing.T) {
	repo := &stubAlertRepo{}
	dedup := newStubDeduper()
	dedup.checkErr = errors.New("redis unavailable")
	svc := NewAlertService(repo, dedup, discardLogger)

	annotated := annotatedWith("SHP-102",
		anomalyAt(domain.AnomalyDelay, domain.SeverityHigh, fixtureStart),
	)

	raised, err := svc.Raise(context.Background(), annotated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raised != 1 {
		t.Errorf("a broken dedup store must not suppress alerts, got %d raised", raised)
	}
}

func TestAlertService_Raise_InsertError(t *testing.T) {
	repo := &stubAlertRepo{insertErr: errors.New("db unavailable")}
	svc := NewAlertService(repo, newStubDeduper(), discardLogger)

	annotated := annotatedWith("SHP-103",
		anomalyAt(domain.AnomalyRouteDeviation, domain.SeverityHigh, fixtureStart),
	)

	if _, err := svc.Raise(context.Background(), annotated); err == nil {
		t.Fatal("expected error when alert insert fails, got nil")
	}
}

func TestAlertService_Raise_NoAnomaliesNoAlerts(t *testing.T) {
	repo := &stubAlertRepo{}
	svc := NewAlertService(repo, newStubDeduper(), discardLogger)

	raised, err := svc.Raise(context.Background(), annotatedWith("SHP-104"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raised != 0 || len(repo.alerts) != 0 {
		t.Errorf("clean shipment must raise nothing, got %d raised", raised)
	}
}

// ---------------------------------------------------------------------------
// ListRecent tests
// ---------------------------------------------------------------------------

func TestAlertService_ListRecent_DefaultLimit(t *testing.T) {
	repo := &stubAlertRepo{}
	svc := NewAlertService(repo, newStubDeduper(), discardLogger)

	if _, err := svc.ListRecent(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 50 {
		t.Errorf("expected default limit 50, repo saw %d", repo.lastLimit)
	}
}
