package fogwall

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// decodeRequest asks for poster index to be loaded and sampled for a canvas
// of the given generation.
type decodeRequest struct {
	gen    uint64
	index  int
	source string
	w, h   int
}

type decodeResult struct {
	decodeRequest
	sampling Sampling
	err      error
}

// decoder loads and samples images off the game loop. Results are delivered
// on a buffered channel that only the game loop drains.
type decoder struct {
	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
	loader  Loader
	tuning  *Tuning
	results chan decodeResult
	queue   []decodeRequest
	// pending holds queued and running requests. Only the game loop touches it.
	pending map[decodeRequest]bool
}

func newDecoder(loader Loader, tuning *Tuning, concurrency int) *decoder {
	if concurrency <= 0 {
		concurrency = 2
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	return &decoder{
		ctx:     ctx,
		cancel:  cancel,
		group:   g,
		loader:  loader,
		tuning:  tuning,
		results: make(chan decodeResult, 16),
		pending: make(map[decodeRequest]bool),
	}
}

// request queues r unless an identical request is queued or running. Call
// pump to start queued work.
func (d *decoder) request(r decodeRequest) {
	if d.pending[r] {
		return
	}
	d.pending[r] = true
	d.queue = append(d.queue, r)
}

// dropStale removes queued requests from generations before gen.
func (d *decoder) dropStale(gen uint64) {
	kept := d.queue[:0]
	for _, r := range d.queue {
		if r.gen >= gen {
			kept = append(kept, r)
			continue
		}
		delete(d.pending, r)
	}
	d.queue = kept
}

// pump starts as many queued requests as the concurrency limit allows
// without blocking the caller.
func (d *decoder) pump() {
	for len(d.queue) > 0 {
		r := d.queue[0]
		if !d.group.TryGo(func() error { d.run(r); return nil }) {
			return
		}
		d.queue = d.queue[1:]
	}
}

func (d *decoder) run(r decodeRequest) {
	res := decodeResult{decodeRequest: r}
	img, err := d.loader.Load(d.ctx, r.source)
	if err != nil {
		res.err = err
	} else {
		res.sampling = sampleImage(img, r.w, r.h, d.tuning)
	}
	select {
	case d.results <- res:
	case <-d.ctx.Done():
	}
}

// poll returns the next finished result without blocking.
func (d *decoder) poll() (decodeResult, bool) {
	select {
	case res := <-d.results:
		delete(d.pending, res.decodeRequest)
		return res, true
	default:
		return decodeResult{}, false
	}
}

// close cancels in-flight loads and waits for every worker to exit.
func (d *decoder) close() {
	d.queue = nil
	d.cancel()
	_ = d.group.Wait()
}
