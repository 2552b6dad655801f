package testutil

import (
	"bytes"
	"errors"
	"sync"
)

// RecordingPort is a serial port stand-in that keeps every write.
type RecordingPort struct {
	mu     sync.Mutex
	writes [][]byte
	closed bool

	// FailWrites makes every Write return an error.
	FailWrites bool
	// Block, when set, holds each Write until it is closed or receives.
	Block chan struct{}
}

// NewRecordingPort creates an empty recording port.
func NewRecordingPort() *RecordingPort {
	return &RecordingPort{}
}

func (p *RecordingPort) Write(b []byte) (int, error) {
	if p.Block != nil {
		<-p.Block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWrites {
		return 0, errors.New("write failed")
	}
	if p.closed {
		return 0, errors.New("port closed")
	}
	p.writes = append(p.writes, bytes.Clone(b))
	return len(b), nil
}

func (p *RecordingPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Writes returns a copy of every write so far.
func (p *RecordingPort) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.writes))
	copy(out, p.writes)
	return out
}

// Closed reports whether Close was called.
func (p *RecordingPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
