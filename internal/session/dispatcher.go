package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hotspot-trainer/backend/internal/models"
)

// ErrStopped is returned once the dispatcher loop has exited.
var ErrStopped = errors.New("session dispatcher stopped")

type request struct {
	fn    func(*Controller) error
	reply chan result
}

type result struct {
	snap models.SessionSnapshot
	err  error
}

// Dispatcher owns the Controller and applies requests one at a time from a
// single goroutine. Subscribers get the snapshot after every request that
// succeeds or moves the session to another state, including a failed
// request that drops the content.
type Dispatcher struct {
	ctrl    *Controller
	queue   chan request
	stopped chan struct{}

	mu   sync.Mutex
	subs map[chan models.SessionSnapshot]struct{}
}

// NewDispatcher creates a dispatcher for ctrl. depth bounds the number of
// requests waiting for the loop.
func NewDispatcher(ctrl *Controller, depth int) *Dispatcher {
	if depth < 1 {
		depth = 1
	}
	return &Dispatcher{
		ctrl:    ctrl,
		queue:   make(chan request, depth),
		stopped: make(chan struct{}),
		subs:    make(map[chan models.SessionSnapshot]struct{}),
	}
}

// Run processes requests until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.stopped)
	fmt.Println("[Session] dispatcher started")
	for {
		select {
		case <-ctx.Done():
			fmt.Println("[Session] dispatcher stopped")
			return
		case req := <-d.queue:
			before := d.ctrl.State()
			res := d.apply(req.fn)
			req.reply <- res
			if req.fn != nil && (res.err == nil || res.snap.State != before) {
				d.publish(res.snap)
			}
		}
	}
}

func (d *Dispatcher) apply(fn func(*Controller) error) (res result) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Session] PANIC recovered: %v\n", r)
			res = result{snap: d.ctrl.Snapshot(), err: fmt.Errorf("session panicked: %v", r)}
		}
	}()

	var err error
	if fn != nil {
		err = fn(d.ctrl)
	}
	return result{snap: d.ctrl.Snapshot(), err: err}
}

// Do runs fn on the dispatcher goroutine and returns the snapshot taken
// right after it. A nil fn only takes the snapshot.
func (d *Dispatcher) Do(ctx context.Context, fn func(*Controller) error) (models.SessionSnapshot, error) {
	req := request{fn: fn, reply: make(chan result, 1)}
	select {
	case d.queue <- req:
	case <-d.stopped:
		return models.SessionSnapshot{}, ErrStopped
	case <-ctx.Done():
		return models.SessionSnapshot{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.snap, res.err
	case <-d.stopped:
		return models.SessionSnapshot{}, ErrStopped
	case <-ctx.Done():
		return models.SessionSnapshot{}, ctx.Err()
	}
}

// Dispatch applies one event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.Event) (models.SessionSnapshot, error) {
	return d.Do(ctx, func(c *Controller) error { return c.Handle(ev) })
}

// Snapshot returns the current snapshot.
func (d *Dispatcher) Snapshot(ctx context.Context) (models.SessionSnapshot, error) {
	return d.Do(ctx, nil)
}

// Subscribe registers a listener. Slow listeners only see the latest
// snapshot. Call the returned func to unsubscribe.
func (d *Dispatcher) Subscribe() (<-chan models.SessionSnapshot, func()) {
	ch := make(chan models.SessionSnapshot, 1)
	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, ch)
			d.mu.Unlock()
			close(ch)
		})
	}
}

func (d *Dispatcher) publish(snap models.SessionSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for ch := range d.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
