// Package worker implements a bounded pool of background workers with a
// single ordered result channel.
//
// Every long-latency operation (search, thumbnail fetch, stream resolution)
// runs here so the render loop never blocks on the network. Results carry the
// generation that issued them; the consumer discards stale generations, which
// is the only cancellation mechanism - in-flight fetches are never interrupted,
// their results are simply dropped on delivery.
package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
	"github.com/ytap-cli/ytap/key"
	"github.com/ytap-cli/ytap/log"
)

// Kind identifies the operation a job performs.
type Kind int

const (
	Search Kind = iota + 1
	ThumbnailFetch
	StreamResolve
)

func (k Kind) String() string {
	switch k {
	case Search:
		return "search"
	case ThumbnailFetch:
		return "thumbnail-fetch"
	case StreamResolve:
		return "stream-resolve"
	default:
		return "unknown"
	}
}

// Job is a unit of background work.
type Job struct {
	Kind       Kind
	Generation int
	// TargetID names what the job operates on: a query string for searches,
	// a video identifier or URL otherwise. Echoed back in the Result.
	TargetID string
	// Run performs the work. The context carries the pool's network timeout.
	Run func(ctx context.Context) (any, error)
}

// Result is the completion record delivered for every submitted job.
type Result struct {
	RequestID  uint64
	Kind       Kind
	Generation int
	TargetID   string
	Value      any
	Err        error
}

// Dispatcher owns a fixed pool of workers and the ordered delivery channel.
type Dispatcher struct {
	jobs      chan submission
	results   chan Result
	requestID atomic.Uint64
	timeout   time.Duration

	closeOnce sync.Once
	wg        sync.WaitGroup
}

type submission struct {
	id  uint64
	job Job
}

// queueDepth bounds how many jobs can wait without blocking the submitter.
// A search plus a page of thumbnails plus a stream resolve fits comfortably.
const queueDepth = 64

// New starts size workers. If size is not positive it falls back to the
// configured pool size.
func New(size int) *Dispatcher {
	if size <= 0 {
		size = viper.GetInt(key.WorkersPoolSize)
	}
	if size <= 0 {
		size = 4
	}

	timeout := time.Duration(viper.GetInt(key.NetworkTimeoutSeconds)) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	d := &Dispatcher{
		jobs:    make(chan submission, queueDepth),
		results: make(chan Result, queueDepth),
		timeout: timeout,
	}

	d.wg.Add(size)
	for i := 0; i < size; i++ {
		go d.worker()
	}

	return d
}

// Submit enqueues a job and returns its request identifier.
// It blocks only when the queue is full.
func (d *Dispatcher) Submit(job Job) uint64 {
	id := d.requestID.Add(1)
	d.jobs <- submission{id: id, job: job}
	return id
}

// Results returns the single ordered delivery channel. It must be consumed
// by exactly one reader; that reader serializes all state mutations.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Close stops accepting jobs and, once in-flight jobs finish, closes the
// results channel.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.jobs)
		go func() {
			d.wg.Wait()
			close(d.results)
		}()
	})
}

// worker drains the job queue until Close. A panicking job is converted into
// an error result so one bad job can never take the pool down.
func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for sub := range d.jobs {
		d.results <- d.execute(sub)
	}
}

func (d *Dispatcher) execute(sub submission) (result Result) {
	result = Result{
		RequestID:  sub.id,
		Kind:       sub.job.Kind,
		Generation: sub.job.Generation,
		TargetID:   sub.job.TargetID,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("worker panic in %s job for %q: %v\n%s", sub.job.Kind, sub.job.TargetID, r, debug.Stack())
			result.Err = fmt.Errorf("%s job panicked: %v", sub.job.Kind, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	result.Value, result.Err = sub.job.Run(ctx)
	return result
}
