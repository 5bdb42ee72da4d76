package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed reports a verification submitted to, or abandoned by, a
// stopped pool.
var ErrPoolClosed = errors.New("verifier pool is stopped")

type verifyJob struct {
	candidate  string
	storedHash string
	result     chan error
}

// VerifierPool runs password verification on a fixed set of workers so that
// a CPU-bound argon2 computation never runs on a request-serving goroutine's
// schedule budget. Pool size is independent of request concurrency.
type VerifierPool struct {
	jobs chan verifyJob
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewVerifierPool starts numWorkers verification workers. queueDepth bounds
// how many verifications may wait for a worker before submissions block.
func NewVerifierPool(numWorkers, queueDepth int) *VerifierPool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueDepth <= 0 {
		queueDepth = numWorkers * 4
	}

	p := &VerifierPool{
		jobs: make(chan verifyJob, queueDepth),
		quit: make(chan struct{}),
	}
	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *VerifierPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job.result <- VerifyPassword(job.candidate, job.storedHash)
		case <-p.quit:
			return
		}
	}
}

// Verify submits a verification and waits for a worker to finish it. The
// calling goroutine suspends on channels; it never runs the hash itself.
// Context cancellation while queued or in flight returns the context error;
// a stopped pool returns ErrPoolClosed. Both are infrastructure failures,
// never authentication outcomes.
func (p *VerifierPool) Verify(ctx context.Context, candidate, storedHash string) error {
	job := verifyJob{candidate: candidate, storedHash: storedHash, result: make(chan error, 1)}

	select {
	case p.jobs <- job:
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return fmt.Errorf("waiting for verifier worker: %w", ctx.Err())
	}

	select {
	case err := <-job.result:
		return err
	case <-p.quit:
		return ErrPoolClosed
	case <-ctx.Done():
		return fmt.Errorf("waiting for verification result: %w", ctx.Err())
	}
}

// Stop shuts the pool down. Verifications already picked up by a worker
// finish; queued ones are abandoned and their callers get ErrPoolClosed.
func (p *VerifierPool) Stop() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
