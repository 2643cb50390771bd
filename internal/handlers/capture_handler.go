package handlers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/friendo-app/friendo-server/internal/capture"
)

// CaptureStore is the backend-integration surface the capture flow submits
// to. The flow itself owns no transport, retry, or persistence logic.
type CaptureStore interface {
	UserExists(ctx context.Context, uid string) (bool, error)
	TaskBelongsToUser(ctx context.Context, taskID, userUID string) (bool, error)
	SavePhoto(ctx context.Context, userUID, taskID string, payload capture.Payload) (photoID string, err error)
}

// PromptSource resolves the capture modal's prompt string.
type PromptSource interface {
	PromptForToday(ctx context.Context) string
}

// maxUploadBytes caps a single photo upload. The declared MIME type is
// untrusted; the size is the one thing enforced before hand-off.
const maxUploadBytes = 10 << 20

const (
	sessionIdleTimeout = 30 * time.Minute
	sessionSweepPeriod = 5 * time.Minute
)

// captureSession pairs one capture.Session with the submission outcome its
// callbacks deposit.
type captureSession struct {
	id      string
	userUID string
	taskID  string
	sess    *capture.Session

	mu         sync.Mutex
	lastActive time.Time
	photoID    string
	submitErr  error
}

func (cs *captureSession) touch() {
	cs.mu.Lock()
	cs.lastActive = time.Now()
	cs.mu.Unlock()
}

func (cs *captureSession) idleSince(cutoff time.Time) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.lastActive.Before(cutoff)
}

type CaptureHandler struct {
	store   CaptureStore
	prompts PromptSource
	policy  capture.AcceptPolicy
	logger  *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*captureSession

	stopSweep chan struct{}
	sweepDone chan struct{}
}

// NewCaptureHandler creates a new capture handler and starts the idle
// session sweeper.
func NewCaptureHandler(store CaptureStore, prompts PromptSource, policy capture.AcceptPolicy, logger *zap.SugaredLogger) *CaptureHandler {
	h := &CaptureHandler{
		store:     store,
		prompts:   prompts,
		policy:    policy,
		logger:    logger,
		sessions:  make(map[string]*captureSession),
		stopSweep: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	go h.sweepIdleSessions()
	return h
}

// Stop halts the sweeper and closes all live sessions.
func (h *CaptureHandler) Stop() {
	close(h.stopSweep)
	<-h.sweepDone

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, cs := range h.sessions {
		cs.sess.Close()
		delete(h.sessions, id)
	}
}

func (h *CaptureHandler) lookup(id string) (*captureSession, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cs, ok := h.sessions[id]
	return cs, ok
}

// remove drops a finished session from the registry and releases its
// preview storage.
func (h *CaptureHandler) remove(id string) {
	h.mu.Lock()
	cs, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		cs.sess.Close()
	}
}

func (h *CaptureHandler) sweepIdleSessions() {
	defer close(h.sweepDone)
	ticker := time.NewTicker(sessionSweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-h.stopSweep:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-sessionIdleTimeout)
			h.mu.Lock()
			var stale []*captureSession
			for id, cs := range h.sessions {
				if cs.idleSince(cutoff) {
					stale = append(stale, cs)
					delete(h.sessions, id)
				}
			}
			h.mu.Unlock()
			for _, cs := range stale {
				h.logger.Infow("closing idle capture session", "session_id", cs.id, "user_uid", cs.userUID)
				cs.sess.Close()
			}
		}
	}
}
