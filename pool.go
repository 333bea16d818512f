package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Tutortoise/example-decoder/decoder"
)

// DefaultPoolSize Pool configuration
const DefaultPoolSize = 4

var (
	ErrPoolClosed     = errors.New("pool is closed")
	ErrAcquireTimeout = errors.New("timeout waiting for available decode slot")
)

// DecoderPool bounds the number of records decoded at once. Every slot
// hands out the same immutable decoder.
type DecoderPool struct {
	slots          chan *decoder.Decoder
	size           int
	acquireTimeout time.Duration
	mu             sync.Mutex
	closed         bool
	metrics        *PoolMetrics
}

type PoolMetrics struct {
	mu              sync.RWMutex
	inUse           int
	totalAcquired   int64
	totalReleased   int64
	acquireFailures int64
	waitTime        time.Duration
}

// PoolSnapshot is a point-in-time copy of the pool metrics.
type PoolSnapshot struct {
	Size            int   `json:"pool_size"`
	InUse           int   `json:"slots_in_use"`
	TotalAcquired   int64 `json:"total_acquired"`
	TotalReleased   int64 `json:"total_released"`
	AcquireFailures int64 `json:"acquire_failures"`
	WaitTimeMillis  int64 `json:"wait_time_ms"`
}

func NewDecoderPool(d *decoder.Decoder, size int, acquireTimeout time.Duration) *DecoderPool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	if acquireTimeout <= 0 {
		acquireTimeout = defaultAcquireTimeout
	}

	pool := &DecoderPool{
		slots:          make(chan *decoder.Decoder, size),
		size:           size,
		acquireTimeout: acquireTimeout,
		metrics:        &PoolMetrics{},
	}
	for i := 0; i < size; i++ {
		pool.slots <- d
	}
	return pool
}

func (p *DecoderPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *DecoderPool) Acquire(ctx context.Context) (*decoder.Decoder, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	start := time.Now()
	defer func() {
		p.metrics.mu.Lock()
		p.metrics.waitTime += time.Since(start)
		p.metrics.mu.Unlock()
	}()

	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case d, ok := <-p.slots:
		if !ok {
			return nil, ErrPoolClosed
		}
		p.metrics.mu.Lock()
		p.metrics.inUse++
		p.metrics.totalAcquired++
		p.metrics.mu.Unlock()
		return d, nil
	case <-timer.C:
		p.metrics.mu.Lock()
		p.metrics.acquireFailures++
		p.metrics.mu.Unlock()
		return nil, ErrAcquireTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *DecoderPool) Release(d *decoder.Decoder) {
	p.metrics.mu.Lock()
	p.metrics.inUse--
	p.metrics.totalReleased++
	p.metrics.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.slots <- d
}

// Close stops handing out slots. Callers waiting in Acquire get ErrPoolClosed.
func (p *DecoderPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.slots)
}

func (p *DecoderPool) Snapshot() PoolSnapshot {
	p.metrics.mu.RLock()
	defer p.metrics.mu.RUnlock()
	return PoolSnapshot{
		Size:            p.size,
		InUse:           p.metrics.inUse,
		TotalAcquired:   p.metrics.totalAcquired,
		TotalReleased:   p.metrics.totalReleased,
		AcquireFailures: p.metrics.acquireFailures,
		WaitTimeMillis:  p.metrics.waitTime.Milliseconds(),
	}
}
