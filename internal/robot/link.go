package robot

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultFlushTimeout bounds how long Close waits for one port to drain.
const DefaultFlushTimeout = time.Second

// Port is an open serial connection to one base station.
type Port interface {
	io.Writer
	io.Closer
}

// channel owns one port and the goroutine that writes to it, so a slow
// port never blocks the caller of Transmit.
type channel struct {
	name  string
	port  Port
	queue chan []byte
	done  chan struct{}
}

func (ch *channel) run() {
	defer close(ch.done)
	for frame := range ch.queue {
		// Every frame goes out twice; a dropped byte costs at most one copy.
		for i := 0; i < 2; i++ {
			if _, err := ch.port.Write(frame); err != nil {
				fmt.Printf("[Robot %s] write failed: %v\n", ch.name, err)
				break
			}
		}
	}
}

// shutdown lets the writer drain the queue for at most timeout, then closes
// the port. Closing the port unblocks a write stuck on a dead adapter.
func (ch *channel) shutdown(timeout time.Duration) error {
	close(ch.queue)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch.done:
	case <-timer.C:
		fmt.Printf("[Robot %s] write stalled, closing port\n", ch.name)
	}
	return ch.port.Close()
}

// Link fans power frames out to every open base station.
type Link struct {
	mu       sync.Mutex
	channels []*channel
	depth    int
	closed   bool

	// FlushTimeout bounds the wait for each port in Close.
	FlushTimeout time.Duration
}

// NewLink creates an empty link. depth bounds the frames buffered per port.
func NewLink(depth int) *Link {
	if depth < 1 {
		depth = 1
	}
	return &Link{depth: depth, FlushTimeout: DefaultFlushTimeout}
}

// Add takes ownership of an open port.
func (l *Link) Add(name string, port Port) {
	ch := &channel{
		name:  name,
		port:  port,
		queue: make(chan []byte, l.depth),
		done:  make(chan struct{}),
	}
	go ch.run()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		ch.shutdown(l.FlushTimeout)
		return
	}
	l.channels = append(l.channels, ch)
	fmt.Printf("[Robot] base station connected on %s\n", name)
}

// Names returns the port names currently in the link.
func (l *Link) Names() []string {
	if l == nil {
		return []string{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.channels))
	for _, ch := range l.channels {
		names = append(names, ch.name)
	}
	return names
}

// Len returns the number of open channels.
func (l *Link) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.channels)
}

// Transmit queues one frame on every channel. With no channel open it is a
// logged no-op so the game stays playable without hardware. A channel whose
// queue is full drops the frame; power frames are idempotent.
func (l *Link) Transmit(left, right byte) error {
	if l == nil {
		fmt.Println("[Robot] BaseStation not connected, cannot change power level")
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.channels) == 0 || l.closed {
		fmt.Println("[Robot] BaseStation not connected, cannot change power level")
		return nil
	}

	frame := EncodeFrame(left, right)
	for _, ch := range l.channels {
		select {
		case ch.queue <- frame:
		default:
			fmt.Printf("[Robot %s] queue full, dropping power %d/%d\n", ch.name, left, right)
		}
	}
	return nil
}

// Close flushes queued frames and closes every port. A port that does not
// drain within FlushTimeout is closed anyway.
func (l *Link) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	channels := l.channels
	l.channels = nil
	l.mu.Unlock()

	var firstErr error
	for _, ch := range channels {
		if err := ch.shutdown(l.FlushTimeout); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", ch.name, err)
		}
	}
	return firstErr
}
