package infer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"sketchassist/internal/classify"
)

// ErrClosed is returned by a second Close. Submit after Close reports ok false.
var ErrClosed = errors.New("infer: runner closed")

// Job is one classification request.
type Job struct {
	Seq   uint64
	Image image.Image
}

// Result is the outcome of a Job.
type Result struct {
	Seq        uint64
	Prediction classify.Prediction
	Err        error
}

// Runner executes jobs and hands back results to the frame loop.
type Runner interface {
	// Submit starts img and returns its sequence number. ok is false when
	// the runner is busy and the job was dropped.
	Submit(img image.Image) (seq uint64, ok bool)
	// Poll returns a finished result without blocking.
	Poll() (Result, bool)
	Busy() bool
	Close() error
}

// Worker runs one job at a time on a background goroutine.
type Worker struct {
	c      classify.Classifier
	ctx    context.Context
	cancel context.CancelFunc

	once     sync.Once
	wg       sync.WaitGroup
	workCh   chan Job
	resultCh chan Result
	inflight atomic.Bool
	closed   atomic.Bool
	seq      uint64
}

// NewWorker returns a worker classifying with c until ctx is done or Close.
func NewWorker(ctx context.Context, c classify.Classifier) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	return &Worker{
		c:        c,
		ctx:      ctx,
		cancel:   cancel,
		workCh:   make(chan Job, 1),
		resultCh: make(chan Result, 1),
	}
}

func (w *Worker) ensure() {
	w.once.Do(func() {
		w.wg.Add(1)
		go w.run()
	})
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.workCh:
			res := w.classify(job)
			select {
			case w.resultCh <- res:
			default:
				select {
				case <-w.resultCh:
				default:
				}
				select {
				case w.resultCh <- res:
				default:
				}
			}
			w.inflight.Store(false)
		}
	}
}

// classify runs one job. A panic in the classifier becomes the result error.
func (w *Worker) classify(job Job) (res Result) {
	res.Seq = job.Seq
	defer func() {
		if v := recover(); v != nil {
			res.Prediction = classify.Prediction{}
			res.Err = fmt.Errorf("infer: panic: %v", v)
		}
	}()
	res.Prediction, res.Err = w.c.Classify(w.ctx, job.Image)
	return res
}

func (w *Worker) Submit(img image.Image) (uint64, bool) {
	if w.closed.Load() {
		return 0, false
	}
	if !w.inflight.CompareAndSwap(false, true) {
		return 0, false
	}
	w.ensure()
	w.seq++
	w.workCh <- Job{Seq: w.seq, Image: img}
	return w.seq, true
}

func (w *Worker) Poll() (Result, bool) {
	select {
	case res := <-w.resultCh:
		return res, true
	default:
		return Result{}, false
	}
}

// Busy reports whether a job is queued or running.
func (w *Worker) Busy() bool { return w.inflight.Load() }

// Close stops the worker and waits for a running job to return.
func (w *Worker) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	w.cancel()
	w.wg.Wait()
	return nil
}

// Sync classifies on the caller's goroutine. Results are available to the
// next Poll.
type Sync struct {
	c       classify.Classifier
	ctx     context.Context
	seq     uint64
	pending *Result
}

// NewSync returns a synchronous runner.
func NewSync(ctx context.Context, c classify.Classifier) *Sync {
	return &Sync{c: c, ctx: ctx}
}

func (s *Sync) Submit(img image.Image) (uint64, bool) {
	if s.pending != nil {
		return 0, false
	}
	s.seq++
	p, err := s.c.Classify(s.ctx, img)
	s.pending = &Result{Seq: s.seq, Prediction: p, Err: err}
	return s.seq, true
}

func (s *Sync) Poll() (Result, bool) {
	if s.pending == nil {
		return Result{}, false
	}
	res := *s.pending
	s.pending = nil
	return res, true
}

func (s *Sync) Busy() bool { return s.pending != nil }

func (s *Sync) Close() error { return nil }
