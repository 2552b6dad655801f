package robot

import (
	"testing"
	"time"

	"github.com/hotspot-trainer/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x50, 0xFE, '\n'}, EncodeFrame(0x50, 0xFE))
}

func TestLink_FansOutTwicePerPort(t *testing.T) {
	link := NewLink(4)
	a := testutil.NewRecordingPort()
	b := testutil.NewRecordingPort()
	link.Add("COM3", a)
	link.Add("COM4", b)

	require.NoError(t, link.Transmit(80, 120))
	require.NoError(t, link.Close())

	want := [][]byte{
		{0, 0, 80, 120, '\n'},
		{0, 0, 80, 120, '\n'},
	}
	assert.Equal(t, want, a.Writes())
	assert.Equal(t, want, b.Writes())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
}

func TestLink_NoChannelsIsNoOp(t *testing.T) {
	link := NewLink(1)
	assert.NoError(t, link.Transmit(1, 2))
	assert.Equal(t, 0, link.Len())

	var nilLink *Link
	assert.NoError(t, nilLink.Transmit(1, 2))
	assert.Empty(t, nilLink.Names())
}

func TestLink_FullQueueDoesNotBlock(t *testing.T) {
	link := NewLink(1)
	port := testutil.NewRecordingPort()
	port.Block = make(chan struct{})
	link.Add("COM9", port)

	// The writer holds the first frame, the queue holds the second, the
	// rest are dropped without blocking.
	for i := 0; i < 10; i++ {
		require.NoError(t, link.Transmit(byte(i), byte(i)))
	}

	close(port.Block)
	require.NoError(t, link.Close())
	writes := port.Writes()
	assert.NotEmpty(t, writes)
	assert.LessOrEqual(t, len(writes), 4)
}

func TestLink_WriteErrorsAreTolerated(t *testing.T) {
	link := NewLink(2)
	port := testutil.NewRecordingPort()
	port.FailWrites = true
	link.Add("COM5", port)

	assert.NoError(t, link.Transmit(10, 10))
	assert.NoError(t, link.Close())
	assert.Empty(t, port.Writes())
}

func TestLink_AddAfterClose(t *testing.T) {
	link := NewLink(1)
	require.NoError(t, link.Close())

	port := testutil.NewRecordingPort()
	link.Add("COM1", port)
	assert.True(t, port.Closed())
	assert.Equal(t, 0, link.Len())
}

func TestLink_CloseDoesNotHangOnStalledWrite(t *testing.T) {
	link := NewLink(2)
	link.FlushTimeout = 50 * time.Millisecond
	port := testutil.NewRecordingPort()
	port.Block = make(chan struct{})
	defer close(port.Block)
	link.Add("COM7", port)

	require.NoError(t, link.Transmit(100, 100))

	done := make(chan error, 1)
	go func() { done <- link.Close() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on a stalled write")
	}
	assert.True(t, port.Closed())
	assert.Equal(t, 0, link.Len())
}

func TestScanner_ConnectBoundsFlushByTimeout(t *testing.T) {
	s := testScanner(nil, nil)
	s.Options.Timeout = 50 * time.Millisecond
	s.Options.QueueDepth = 4

	link, err := s.Connect()
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, link.FlushTimeout)
}
