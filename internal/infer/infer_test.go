package infer

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"sketchassist/internal/classify"
	"sketchassist/internal/config"
)

func TestTimerRepeats(t *testing.T) {
	tm := NewTimer(time.Second)
	if tm.Tick(600 * time.Millisecond) {
		t.Fatalf("fired early")
	}
	if !tm.Tick(600 * time.Millisecond) {
		t.Fatalf("did not fire at 1.2s")
	}
	if tm.Elapsed() != 200*time.Millisecond {
		t.Fatalf("Elapsed = %v, want 200ms remainder", tm.Elapsed())
	}
	if !tm.Tick(3 * time.Second) {
		t.Fatalf("did not fire after long frame")
	}
	if tm.Elapsed() != 200*time.Millisecond {
		t.Fatalf("Elapsed = %v, want 200ms", tm.Elapsed())
	}
	tm.Reset()
	if tm.Elapsed() != 0 {
		t.Fatalf("Elapsed after Reset = %v", tm.Elapsed())
	}
}

func TestTimerDisabled(t *testing.T) {
	tm := NewTimer(0)
	if tm.Tick(time.Hour) {
		t.Fatalf("zero interval fired")
	}
}

func TestControllerTimerMode(t *testing.T) {
	c := NewController(config.TriggerTimer, time.Second)
	if c.State() != Wait {
		t.Fatalf("State = %v, want wait", c.State())
	}
	if c.Ready(false, false, true) {
		t.Fatalf("Ready in Wait without trigger")
	}
	c.Tick(time.Second)
	if c.State() != Infer {
		t.Fatalf("State = %v, want infer", c.State())
	}
	if c.Ready(false, false, false) {
		t.Fatalf("Ready with clean canvas")
	}
	if c.Ready(false, true, true) {
		t.Fatalf("Ready despite clear in the same frame")
	}
	if !c.Ready(false, false, true) {
		t.Fatalf("Ready = false in Infer with dirty canvas")
	}
	c.Done()
	if c.State() != Wait {
		t.Fatalf("State after Done = %v, want wait", c.State())
	}
	if !c.Ready(true, false, false) {
		t.Fatalf("infer key should force a run in timer mode")
	}
}

func TestControllerKeyMode(t *testing.T) {
	c := NewController("key", 100*time.Millisecond)
	if c.Ready(true, false, true) {
		t.Fatalf("Ready in Wait")
	}
	c.Tick(100 * time.Millisecond)
	if c.Ready(false, false, true) {
		t.Fatalf("Ready without key")
	}
	if !c.Ready(true, false, false) {
		t.Fatalf("Ready = false with key in Infer")
	}
}

func TestStateString(t *testing.T) {
	if Wait.String() != "wait" || Infer.String() != "infer" || State(9).String() != "unknown" {
		t.Fatalf("unexpected State strings")
	}
}

func TestWorkerDropsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	c := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		started <- struct{}{}
		<-release
		return classify.Prediction{Class: 7}, nil
	})
	w := NewWorker(context.Background(), c)
	defer w.Close()

	seq, ok := w.Submit(nil)
	if !ok || seq != 1 {
		t.Fatalf("Submit = %d, %v; want 1, true", seq, ok)
	}
	<-started
	if _, ok := w.Submit(nil); ok {
		t.Fatalf("Submit while busy ok = true, want dropped")
	}
	if !w.Busy() {
		t.Fatalf("Busy = false while running")
	}
	close(release)

	deadline := time.After(2 * time.Second)
	for {
		if res, ok := w.Poll(); ok {
			if res.Seq != 1 || res.Prediction.Class != 7 || res.Err != nil {
				t.Fatalf("result = %+v", res)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("no result")
		case <-time.After(time.Millisecond):
		}
	}
	for w.Busy() {
		select {
		case <-deadline:
			t.Fatalf("worker still busy")
		case <-time.After(time.Millisecond):
		}
	}
	if seq, ok := w.Submit(nil); !ok || seq != 2 {
		t.Fatalf("Submit after result = %d, %v; want 2, true", seq, ok)
	}
}

func TestWorkerRecoversClassifierPanic(t *testing.T) {
	c := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		panic("bad weights")
	})
	w := NewWorker(context.Background(), c)
	defer w.Close()

	if _, ok := w.Submit(nil); !ok {
		t.Fatalf("Submit ok = false")
	}
	deadline := time.After(2 * time.Second)
	var res Result
	for {
		var ok bool
		if res, ok = w.Poll(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("no result after panic")
		case <-time.After(time.Millisecond):
		}
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "infer: panic: bad weights") {
		t.Fatalf("Err = %v, want recovered panic", res.Err)
	}
	for w.Busy() {
		select {
		case <-deadline:
			t.Fatalf("worker still busy after panic")
		case <-time.After(time.Millisecond):
		}
	}
	if _, ok := w.Submit(nil); !ok {
		t.Fatalf("Submit after panic ok = false, want worker alive")
	}
}

func TestWorkerClose(t *testing.T) {
	c := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		<-ctx.Done()
		return classify.Prediction{}, ctx.Err()
	})
	w := NewWorker(context.Background(), c)
	w.Submit(nil)
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrClosed) {
		t.Fatalf("second Close = %v, want ErrClosed", err)
	}
	if _, ok := w.Submit(nil); ok {
		t.Fatalf("Submit after Close ok = true")
	}
}

func TestSyncRunner(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	c := classify.Func(func(ctx context.Context, img image.Image) (classify.Prediction, error) {
		calls++
		if calls == 2 {
			return classify.Prediction{}, boom
		}
		return classify.Prediction{Class: calls}, nil
	})
	s := NewSync(context.Background(), c)
	if _, ok := s.Poll(); ok {
		t.Fatalf("Poll on empty runner ok = true")
	}
	s.Submit(nil)
	if _, ok := s.Submit(nil); ok {
		t.Fatalf("Submit with pending result ok = true")
	}
	res, ok := s.Poll()
	if !ok || res.Prediction.Class != 1 {
		t.Fatalf("Poll = %+v, %v", res, ok)
	}
	s.Submit(nil)
	res, _ = s.Poll()
	if !errors.Is(res.Err, boom) || res.Seq != 2 {
		t.Fatalf("Poll = %+v, want boom seq 2", res)
	}
}
