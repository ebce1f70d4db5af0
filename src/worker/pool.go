package worker

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"screen-frame-capture/src/screenshot"
)

// Capturer grabs a region and delivers it to the requested sinks.
type Capturer interface {
	CaptureAndSave(r screenshot.Region, toClipboard, toFile bool) screenshot.Outcome
}

// ResultCallback is invoked on capture completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(screenshot.Outcome)

// Job is one capture request. The region is snapshotted by the caller before
// submission, so later window changes cannot affect it.
type Job struct {
	Region    screenshot.Region
	Clipboard bool
	File      bool
	// Settle is waited out before grabbing so the hidden frame has left the
	// screen.
	Settle time.Duration
}

// Pool is a fixed-size capture worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	capturer Capturer
	jobs     chan job
	wg       sync.WaitGroup
}

type job struct {
	ctx context.Context
	Job
	cb ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(c Capturer, size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{capturer: c, jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: Starting capture of %s", j.Region)
				out := p.run(j)
				log.Printf("Worker: Capture completed, file=%q clipboard=%v err=%v", out.FilePath, out.ClipboardOK, out.Err)
				j.cb(out)
			}
		}()
	}
}

func (p *Pool) run(j job) screenshot.Outcome {
	if j.Settle > 0 {
		t := time.NewTimer(j.Settle)
		select {
		case <-t.C:
		case <-j.ctx.Done():
			t.Stop()
			return screenshot.Outcome{Err: j.ctx.Err()}
		}
	}
	if err := j.ctx.Err(); err != nil {
		return screenshot.Outcome{Err: err}
	}
	return p.capturer.CaptureAndSave(j.Region, j.Clipboard, j.File)
}

// Submit enqueues a capture job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, j Job, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, Job: j, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
