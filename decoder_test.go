package fogwall

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// waitResult polls d until a result arrives or the test times out.
func waitResult(t *testing.T, d *decoder) decodeResult {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		d.pump()
		if res, ok := d.poll(); ok {
			return res
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for decode result")
	return decodeResult{}
}

func TestDecoderDeliversSampling(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tu := DefaultTuning()
	l := newCountingLoader(100)
	d := newDecoder(l, &tu, 2)
	defer d.close()

	d.request(decodeRequest{gen: 1, index: 3, source: "a", w: 800, h: 600})
	d.pump()
	res := waitResult(t, d)
	if res.err != nil {
		t.Fatalf("err = %v", res.err)
	}
	if res.index != 3 || res.gen != 1 || res.source != "a" {
		t.Errorf("result routed to %+v", res.decodeRequest)
	}
	if res.sampling.Empty() {
		t.Error("expected samples")
	}
	if len(d.pending) != 0 {
		t.Errorf("pending = %v after poll", d.pending)
	}
}

func TestDecoderReportsErrors(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tu := DefaultTuning()
	l := newCountingLoader(10)
	boom := errors.New("boom")
	l.failOn["bad"] = boom
	d := newDecoder(l, &tu, 1)
	defer d.close()

	d.request(decodeRequest{index: 0, source: "bad", w: 100, h: 100})
	res := waitResult(t, d)
	if !errors.Is(res.err, boom) {
		t.Errorf("err = %v, want boom", res.err)
	}
}

func TestDecoderDedupesPendingRequests(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	tu := DefaultTuning()
	l := newCountingLoader(10)
	d := newDecoder(l, &tu, 2)
	defer d.close()

	r := decodeRequest{gen: 1, index: 0, source: "a", w: 100, h: 100}
	d.request(r)
	d.request(r)
	d.pump()
	d.request(r)
	waitResult(t, d)

	if n := l.count("a"); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
	if _, ok := d.poll(); ok {
		t.Error("unexpected second result")
	}

	// A finished request may be asked for again.
	d.request(r)
	waitResult(t, d)
	if n := l.count("a"); n != 2 {
		t.Errorf("loads = %d, want 2", n)
	}
}

func TestDecoderConcurrencyLimit(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var running, peak atomic.Int32
	release := make(chan struct{})
	l := LoaderFunc(func(ctx context.Context, _ string) (image.Image, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return solidImage(4, 4, opaqueRed), nil
	})

	tu := DefaultTuning()
	d := newDecoder(l, &tu, 2)
	defer d.close()

	for i := range 5 {
		d.request(decodeRequest{index: i, source: "s", w: 50, h: 50})
	}
	d.pump()
	if len(d.queue) != 3 {
		t.Errorf("queued = %d, want 3 waiting behind the limit", len(d.queue))
	}
	close(release)
	for range 5 {
		waitResult(t, d)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestDecoderCloseCancelsLoads(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	started := make(chan struct{})
	l := LoaderFunc(func(ctx context.Context, _ string) (image.Image, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	tu := DefaultTuning()
	d := newDecoder(l, &tu, 1)
	d.request(decodeRequest{source: "slow", w: 10, h: 10})
	d.pump()
	<-started

	done := make(chan struct{})
	go func() {
		d.close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
}

func TestDecoderDropStale(t *testing.T) {
	tu := DefaultTuning()
	d := newDecoder(newCountingLoader(4), &tu, 1)
	defer d.close()

	d.request(decodeRequest{gen: 1, index: 0, source: "a"})
	d.request(decodeRequest{gen: 1, index: 1, source: "b"})
	d.request(decodeRequest{gen: 2, index: 0, source: "a"})
	d.dropStale(2)

	if len(d.queue) != 1 || d.queue[0].gen != 2 {
		t.Fatalf("queue = %+v, want only the gen 2 request", d.queue)
	}
	if len(d.pending) != 1 {
		t.Errorf("pending = %v", d.pending)
	}
	// The dropped request can be queued again.
	d.request(decodeRequest{gen: 1, index: 1, source: "b"})
	if len(d.queue) != 2 {
		t.Errorf("queue len = %d, want 2", len(d.queue))
	}
}
