package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fleetwatch/logistics-monitor/internal/api/metrics"
	"github.com/fleetwatch/logistics-monitor/internal/core/domain"
	"github.com/fleetwatch/logistics-monitor/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher fans shipment records out to a fixed set of workers using
// consistent hashing on the shipment id. Detection is a pure function of the
// record, so records parallelize freely; the sharding only guarantees that
// re-submissions of the same shipment are analysed in arrival order.
type Dispatcher struct {
	workers []chan domain.ShipmentRecord
	service ports.DetectionService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.DetectionService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ShipmentRecord, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ShipmentRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a record to the worker responsible for its shipment id.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(rec domain.ShipmentRecord) {
	i := d.shardIndex(rec.ID)
	d.workers[i] <- rec
	metrics.AnalysisQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple records preserving per-shipment ordering.
func (d *Dispatcher) EnqueueBatch(records []domain.ShipmentRecord) {
	for _, rec := range records {
		d.Enqueue(rec)
	}
}

// shardIndex maps a shipment id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ShipmentRecord) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			metrics.AnalysisQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if _, err := d.service.Analyze(ctx, rec); err != nil {
				d.log.Error().Err(err).
					Str("shipment_id", rec.ID).
					Int("worker_id", id).
					Msg("shipment analysis failed")
			}
		}
	}
}
