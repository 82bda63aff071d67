package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/viewtube/account-service/internal/api/metrics"
	"github.com/viewtube/account-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MediaStore is the subset of the object store the cleanup workers need.
type MediaStore interface {
	Remove(ctx context.Context, url string) error
}

// Dispatcher routes replaced-media removals to a fixed set of workers using
// consistent hashing on the user id, so removals for one user stay ordered.
type Dispatcher struct {
	workers []chan ports.MediaRemoval
	store   MediaStore
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store MediaStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MediaRemoval, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MediaRemoval, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a removal to the worker responsible for its user id.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(removal ports.MediaRemoval) {
	idx := d.shardIndex(removal.UserID)
	d.workers[idx] <- removal
	metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MediaRemoval) {
	for {
		select {
		case <-ctx.Done():
			return
		case removal, ok := <-ch:
			if !ok {
				return
			}
			if err := d.store.Remove(ctx, removal.URL); err != nil {
				metrics.MediaRemovalsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("user_id", removal.UserID).
					Str("url", removal.URL).
					Int("worker_id", id).
					Msg("media removal failed")
			} else {
				metrics.MediaRemovalsTotal.WithLabelValues("ok").Inc()
			}
			metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
