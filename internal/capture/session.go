package capture

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionClosed is returned when a file is offered to a session that has
// already submitted or skipped.
var ErrSessionClosed = errors.New("capture session closed")

// State of the session's pending-image slot.
type State int

const (
	// StateEmpty means no image has been selected (or the slot was cleared).
	StateEmpty State = iota
	// StateLoading means a file was chosen and its encode is in flight.
	StateLoading
	// StateReady means the preview and encoded payload are both present.
	StateReady
	// StateDone is terminal: the user confirmed or skipped.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Callbacks are the session's only outward effects. Submit receives the
// encoded payload when the user confirms; Skip fires when they decline.
// Either may be nil.
type Callbacks struct {
	Submit func(Payload)
	Skip   func()
}

// Session owns the single pending image of one capture modal. At most one
// preview plus encoded payload exists at a time; a new selection replaces the
// slot wholesale. Encode completions are applied only when they belong to the
// most recent selection, so a slow encode can never clobber a newer choice.
type Session struct {
	logger *zap.SugaredLogger
	cb     Callbacks
	encode func(io.Reader, string) (Payload, error)

	mu         sync.Mutex
	state      State
	generation uint64
	previewDir string
	preview    string
	payload    *Payload
}

// Snapshot is a point-in-time view of the session for status reporting.
type Snapshot struct {
	State    State
	Preview  string
	MimeType string
}

// NewSession creates a session that reports encode failures to logger and
// fires cb on confirm/skip.
func NewSession(logger *zap.SugaredLogger, cb Callbacks) (*Session, error) {
	dir, err := os.MkdirTemp("", "friendo-capture-")
	if err != nil {
		return nil, err
	}
	return &Session{
		logger:     logger,
		cb:         cb,
		encode:     Encode,
		previewDir: dir,
		state:      StateEmpty,
	}, nil
}

// SelectFile accepts a user-chosen file from either acquisition surface. The
// preview reference is created synchronously; encoding runs asynchronously
// and only blocks the confirm action, never the preview. Selecting again
// while a prior encode is in flight abandons the prior encode's result.
func (s *Session) SelectFile(name, declaredMime string, r io.Reader) error {
	previewPath := filepath.Join(s.previewDir, uuid.New().String()+filepath.Ext(name))
	f, err := os.Create(previewPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(previewPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(previewPath)
		return err
	}

	s.mu.Lock()
	if s.state == StateDone {
		s.mu.Unlock()
		os.Remove(previewPath)
		return ErrSessionClosed
	}
	s.generation++
	gen := s.generation
	s.replacePreviewLocked(previewPath)
	s.payload = nil
	s.state = StateLoading
	s.mu.Unlock()

	go s.runEncode(gen, name, declaredMime, previewPath)
	return nil
}

// runEncode encodes the preview file and applies the result only if it still
// belongs to the latest selection.
func (s *Session) runEncode(gen uint64, name, declaredMime, previewPath string) {
	f, err := os.Open(previewPath)
	var payload Payload
	if err == nil {
		payload, err = s.encode(f, declaredMime)
		f.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer selection (or a clear) superseded this encode.
		s.logger.Debugw("discarding stale encode result", "file", name)
		return
	}

	if err != nil {
		// Recover locally: drop both the payload and the preview so the
		// slot is indistinguishable from empty, and let the user retry.
		s.logger.Errorw("image encode failed", "file", name, "error", err)
		s.replacePreviewLocked("")
		s.payload = nil
		s.state = StateEmpty
		return
	}

	s.payload = &payload
	s.state = StateReady
}

// Clear unconditionally resets both the preview and the payload. An encode
// still in flight is abandoned.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDone {
		return
	}
	s.generation++
	s.replacePreviewLocked("")
	s.payload = nil
	s.state = StateEmpty
}

// Confirm hands the encoded payload to the submit callback exactly once.
// It is a strict no-op while no payload is present or an encode is in
// flight, and reports whether the submission happened.
func (s *Session) Confirm() bool {
	s.mu.Lock()
	if s.state != StateReady || s.payload == nil {
		s.mu.Unlock()
		return false
	}
	payload := *s.payload
	s.finishLocked()
	s.mu.Unlock()

	if s.cb.Submit != nil {
		s.cb.Submit(payload)
	}
	return true
}

// Skip declines the capture. It is valid in any non-terminal state, even
// while an encode is in flight, and fires the skip callback exactly once.
func (s *Session) Skip() bool {
	s.mu.Lock()
	if s.state == StateDone {
		s.mu.Unlock()
		return false
	}
	s.finishLocked()
	s.mu.Unlock()

	if s.cb.Skip != nil {
		s.cb.Skip()
	}
	return true
}

// Snapshot returns a point-in-time view of the slot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state, Preview: s.preview}
	if s.payload != nil {
		snap.MimeType = s.payload.MimeType
	}
	return snap
}

// Close releases the session's preview storage.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.preview = ""
	s.payload = nil
	s.state = StateDone
	if s.previewDir != "" {
		os.RemoveAll(s.previewDir)
		s.previewDir = ""
	}
}

// finishLocked moves the session to its terminal state and drops the slot.
func (s *Session) finishLocked() {
	s.generation++
	s.replacePreviewLocked("")
	s.payload = nil
	s.state = StateDone
}

// replacePreviewLocked swaps the preview reference, removing the previous
// file if one existed.
func (s *Session) replacePreviewLocked(path string) {
	if s.preview != "" && s.preview != path {
		os.Remove(s.preview)
	}
	s.preview = path
}
