// Package parallel splits row-oriented pixel work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// RowPool runs bands of image rows on a fixed set of workers.
//
// Each worker pulls from its own queue and steals from the others when
// its queue runs dry. Run blocks until every band is done, so callers see
// a synchronous operation.
//
// Thread safety: RowPool is safe for concurrent use.
type RowPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu is held for reading while bands are queued and for writing by
	// Close, so no band is queued after the workers drain.
	mu      sync.RWMutex
	running bool
}

// NewRowPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewRowPool(workers int) *RowPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &RowPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running = true

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *RowPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
		default:
			if work := p.steal(id); work != nil {
				work()
				continue
			}
			select {
			case <-p.done:
				drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *RowPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run calls fn over [0, rows) split into contiguous bands of at least
// minRows rows, and waits for all of them. Small jobs and a closed pool
// run fn on the calling goroutine.
func (p *RowPool) Run(rows, minRows int, fn func(y0, y1 int)) {
	if rows <= 0 {
		return
	}
	minRows = max(minRows, 1)
	bands := min(p.workers, rows/minRows)
	if bands <= 1 {
		fn(0, rows)
		return
	}

	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		fn(0, rows)
		return
	}

	var pending sync.WaitGroup
	pending.Add(bands)
	per := (rows + bands - 1) / bands
	for i := range bands {
		y0, y1 := i*per, min((i+1)*per, rows)
		work := func() {
			defer pending.Done()
			if y0 < y1 {
				fn(y0, y1)
			}
		}
		p.queues[i%p.workers] <- work
	}
	p.mu.RUnlock()
	pending.Wait()
}

// Close stops the workers after queued bands finish. It is safe to call
// more than once.
func (p *RowPool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *RowPool) Workers() int {
	return p.workers
}

var (
	sharedOnce sync.Once
	shared     *RowPool
)

// Shared returns a process-wide pool sized to GOMAXPROCS.
func Shared() *RowPool {
	sharedOnce.Do(func() { shared = NewRowPool(0) })
	return shared
}
