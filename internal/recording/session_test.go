package recording

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is an in-memory CaptureDevice for tests.
type fakeDevice struct {
	ch       chan []byte
	startErr error
	pauseErr error

	stopCalls int32
}

func (d *fakeDevice) Start(ctx context.Context) (<-chan []byte, error) {
	if d.startErr != nil {
		return nil, d.startErr
	}
	d.ch = make(chan []byte, 16)
	return d.ch, nil
}

func (d *fakeDevice) Pause() error {
	return d.pauseErr
}

func (d *fakeDevice) Resume() error {
	return nil
}

func (d *fakeDevice) Stop() error {
	atomic.AddInt32(&d.stopCalls, 1)
	close(d.ch)
	return nil
}

func (d *fakeDevice) emit(b []byte) {
	d.ch <- b
}

func TestSession_StartStop(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	s := NewSession(dev)

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateRecording, s.State())

	dev.emit([]byte("abc"))
	dev.emit([]byte("def"))

	clip, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, []byte("abcdef"), clip.Data)
	assert.Equal(t, ClipName, clip.Name)
	assert.Equal(t, ClipMIMEType, clip.MIMEType)
	assert.Equal(t, StateStopped, s.State())
	assert.EqualValues(t, 1, atomic.LoadInt32(&dev.stopCalls))
}

func TestSession_PauseResumeStop(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	s := NewSession(dev)

	require.NoError(t, s.Start(context.Background()))
	dev.emit([]byte("one"))

	require.NoError(t, s.Pause())
	assert.Equal(t, StatePaused, s.State())

	require.NoError(t, s.Resume())
	assert.Equal(t, StateRecording, s.State())
	dev.emit([]byte("two"))

	clip, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, []byte("onetwo"), clip.Data)
	assert.EqualValues(t, 1, atomic.LoadInt32(&dev.stopCalls))
}

func TestSession_DoubleStopIsNoOp(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	s := NewSession(dev)

	require.NoError(t, s.Start(context.Background()))
	dev.emit([]byte("x"))

	first, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, first)

	// Second and later stops must not touch the device again
	second, err := s.Stop()
	assert.NoError(t, err)
	assert.Nil(t, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&dev.stopCalls))

	// The finalized clip stays reachable
	assert.Equal(t, first, s.Clip())
}

func TestSession_StopWithoutStart(t *testing.T) {
	t.Parallel()

	s := NewSession(&fakeDevice{})
	clip, err := s.Stop()
	assert.NoError(t, err)
	assert.Nil(t, clip)
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_InvalidTransitions(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	s := NewSession(dev)

	assert.ErrorIs(t, s.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Resume(), ErrInvalidTransition)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Resume(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	_, err := s.Stop()
	require.NoError(t, err)
	assert.ErrorIs(t, s.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestSession_DeviceDenied(t *testing.T) {
	t.Parallel()

	denied := errors.New("permission denied")
	s := NewSession(&fakeDevice{startErr: denied})

	err := s.Start(context.Background())
	var devErr *DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.ErrorIs(t, err, denied)

	// Denial leaves the session idle; the form continues without audio
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Clip())
}

func TestSession_ElapsedExcludesPauses(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	s := NewSession(dev)

	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	require.NoError(t, s.Start(context.Background()))

	current = current.Add(5 * time.Second)
	require.NoError(t, s.Pause())

	// Paused time must not count
	current = current.Add(30 * time.Second)
	assert.Equal(t, 5, s.Elapsed())

	require.NoError(t, s.Resume())
	current = current.Add(3 * time.Second)
	assert.Equal(t, 8, s.Elapsed())

	clip, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, 8*time.Second, clip.Duration)
}

func TestSession_EmptyCaptureStillFinalizes(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	s := NewSession(dev)

	require.NoError(t, s.Start(context.Background()))
	clip, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Empty(t, clip.Data)
	assert.EqualValues(t, 1, atomic.LoadInt32(&dev.stopCalls))
}
