package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
)

// recordingService counts Analyze calls and remembers, per shipment, the
// VehicleID of each processed record (tests use it as a submission sequence).
type recordingService struct {
	mu       sync.Mutex
	sequence map[string][]string
	calls    int
}

func newRecordingService() *recordingService {
	return &recordingService{sequence: make(map[string][]string)}
}

func (s *recordingService) Analyze(_ context.Context, rec domain.ShipmentRecord) (*domain.AnnotatedShipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.sequence[rec.ID] = append(s.sequence[rec.ID], rec.VehicleID)
	annotated := domain.Annotate(rec, nil)
	return &annotated, nil
}

func (s *recordingService) AnalyzeBatch(ctx context.Context, records []domain.ShipmentRecord) ([]domain.AnnotatedShipment, error) {
	out := make([]domain.AnnotatedShipment, 0, len(records))
	for _, rec := range records {
		annotated, _ := s.Analyze(ctx, rec)
		out = append(out, *annotated)
	}
	return out, nil
}

func (s *recordingService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// waitForCalls polls until the service has handled want records or the
// deadline expires.
func waitForCalls(t *testing.T, svc *recordingService, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if svc.callCount() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d analyzed records, got %d", want, svc.callCount())
}

func TestDispatcher_ProcessesAllRecords(t *testing.T) {
	svc := newRecordingService()
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	var records []domain.ShipmentRecord
	for i := 0; i < 50; i++ {
		records = append(records, domain.ShipmentRecord{ID: fmt.Sprintf("SHP-%04d", i)})
	}
	d.EnqueueBatch(records)

	waitForCalls(t, svc, 50)
}

func TestDispatcher_SameShipmentProcessedInOrder(t *testing.T) {
	svc := newRecordingService()
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Resubmit the same shipment many times, interleaved with others. The
	// VehicleID carries the submission sequence number.
	var records []domain.ShipmentRecord
	for i := 0; i < 20; i++ {
		records = append(records, domain.ShipmentRecord{ID: "SHP-HOT", VehicleID: fmt.Sprintf("%02d", i)})
		records = append(records, domain.ShipmentRecord{ID: fmt.Sprintf("SHP-%04d", i)})
	}
	d.EnqueueBatch(records)

	waitForCalls(t, svc, 40)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	order := svc.sequence["SHP-HOT"]
	if len(order) != 20 {
		t.Fatalf("expected 20 analyses of SHP-HOT, got %d", len(order))
	}
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			t.Fatalf("re-submissions of the same shipment analysed out of order: %v", order)
		}
	}
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(), zerolog.Nop())

	for _, id := range []string{"SHP-1", "SHP-2", "", "SHP-ABC-123"} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard index for %q not stable: %d vs %d", id, got, first)
			}
		}
		if first < 0 || first >= 8 {
			t.Fatalf("shard index out of range: %d", first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingService(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers for non-positive count, got %d", defaultWorkers, len(d.workers))
	}
}
