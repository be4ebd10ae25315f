// Package recording manages the lifecycle of a single consultation audio
// capture: idle -> recording <-> paused -> stopped. A session owns exactly
// one capture device handle and guarantees it is released exactly once, no
// matter which of the competing teardown paths (submit, navigation away,
// unload, cancel) runs first.
package recording

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State represents the current state of a recording session
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateStopped   State = "stopped"
)

const (
	// ClipName is the file name given to every finalized consultation clip.
	ClipName = "checkup_audio.webm"
	// ClipMIMEType is the MIME type of finalized clips.
	ClipMIMEType = "audio/webm"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a session that
	// has left the idle state. A new session requires a fresh instance.
	ErrAlreadyStarted = errors.New("recording session already started")

	// ErrInvalidTransition is returned for pause/resume calls made outside
	// their valid source state.
	ErrInvalidTransition = errors.New("invalid recording state transition")
)

// DeviceError wraps capture device failures such as a denied microphone
// permission. It is non-fatal to the checkup workflow: the form proceeds
// without audio.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture device error: %v", e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// CaptureDevice abstracts the microphone. Start acquires the device and
// returns a channel of raw audio chunks; Stop releases the device and must
// close that channel so the session can drain the tail.
type CaptureDevice interface {
	Start(ctx context.Context) (<-chan []byte, error)
	Pause() error
	Resume() error
	Stop() error
}

// Clip is the single finalized audio object a session produces on stop.
type Clip struct {
	Name     string
	MIMEType string
	Data     []byte
	Duration time.Duration
}

// Session is the recording state machine. All methods are safe for
// concurrent use; the competing teardown triggers may race on Stop.
type Session struct {
	mu     sync.Mutex
	device CaptureDevice
	state  State

	drained chan [][]byte
	clip    *Clip

	activeSince time.Time
	accumulated time.Duration

	now func() time.Time
}

// NewSession creates an idle session bound to the given capture device.
func NewSession(device CaptureDevice) *Session {
	return &Session{
		device: device,
		state:  StateIdle,
		now:    time.Now,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether a capture is in progress (recording or paused).
func (s *Session) Active() bool {
	st := s.State()
	return st == StateRecording || st == StatePaused
}

// Clip returns the finalized clip, or nil before stop or when the session
// never produced audio.
func (s *Session) Clip() *Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip
}

// Elapsed returns the whole seconds of active recording time, excluding
// paused stretches.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.accumulated
	if s.state == StateRecording {
		d += s.now().Sub(s.activeSince)
	}
	return int(d / time.Second)
}

// Start acquires the capture device and begins accumulating chunks. On
// device failure the session stays idle and a DeviceError is returned so
// the caller can continue without audio.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}

	chunks, err := s.device.Start(ctx)
	if err != nil {
		return &DeviceError{Err: err}
	}

	drained := make(chan [][]byte, 1)
	go func() {
		var bufs [][]byte
		for chunk := range chunks {
			if len(chunk) > 0 {
				bufs = append(bufs, chunk)
			}
		}
		drained <- bufs
	}()

	s.drained = drained
	s.state = StateRecording
	s.activeSince = s.now()
	return nil
}

// Pause suspends capture. Valid only while recording; accumulated chunks
// are retained.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrInvalidTransition
	}
	if err := s.device.Pause(); err != nil {
		return &DeviceError{Err: err}
	}
	s.accumulated += s.now().Sub(s.activeSince)
	s.state = StatePaused
	return nil
}

// Resume continues a paused capture.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return ErrInvalidTransition
	}
	if err := s.device.Resume(); err != nil {
		return &DeviceError{Err: err}
	}
	s.activeSince = s.now()
	s.state = StateRecording
	return nil
}

// Stop finalizes all accumulated chunks into a single clip, releases the
// device and transitions to the terminal stopped state. It is safe to call
// from any state and any number of times: only the first call from an
// active state produces a clip, every other call returns nil without error.
func (s *Session) Stop() (*Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording && s.state != StatePaused {
		return nil, nil
	}

	if s.state == StateRecording {
		s.accumulated += s.now().Sub(s.activeSince)
	}
	s.state = StateStopped

	err := s.device.Stop()
	if err != nil {
		// Device is gone; drop whatever was captured.
		s.drained = nil
		return nil, &DeviceError{Err: err}
	}

	// device.Stop closed the chunk channel, so the drain goroutine is done.
	bufs := <-s.drained
	s.drained = nil

	var size int
	for _, b := range bufs {
		size += len(b)
	}
	data := make([]byte, 0, size)
	for _, b := range bufs {
		data = append(data, b...)
	}

	s.clip = &Clip{
		Name:     ClipName,
		MIMEType: ClipMIMEType,
		Data:     data,
		Duration: s.accumulated,
	}
	return s.clip, nil
}
