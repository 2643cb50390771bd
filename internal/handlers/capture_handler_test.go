package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendo-app/friendo-server/internal/capture"
)

type savedPhoto struct {
	userUID string
	taskID  string
	payload capture.Payload
}

type fakeCaptureStore struct {
	mu         sync.Mutex
	users      map[string]bool
	tasks      map[string]string // task id -> owner uid
	photos     []savedPhoto
	saveErr    error
	taskChecks int
}

func (f *fakeCaptureStore) UserExists(_ context.Context, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[uid], nil
}

func (f *fakeCaptureStore) TaskBelongsToUser(_ context.Context, taskID, userUID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taskChecks++
	return f.tasks[taskID] == userUID, nil
}

func (f *fakeCaptureStore) taskLookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taskChecks
}

func (f *fakeCaptureStore) SavePhoto(_ context.Context, userUID, taskID string, payload capture.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.photos = append(f.photos, savedPhoto{userUID: userUID, taskID: taskID, payload: payload})
	return fmt.Sprintf("photo-%d", len(f.photos)), nil
}

func (f *fakeCaptureStore) saved() []savedPhoto {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedPhoto(nil), f.photos...)
}

type fixedPrompt string

func (p fixedPrompt) PromptForToday(context.Context) string { return string(p) }

func newCaptureTestServer(t *testing.T, store *fakeCaptureStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewCaptureHandler(store, fixedPrompt("Snap it!"), capture.DefaultAcceptPolicy(), zap.NewNop().Sugar())
	t.Cleanup(h.Stop)

	router := gin.New()
	group := router.Group("/api/v1/capture")
	{
		group.POST("/start", h.StartCapture)
		group.POST("/:id/select", h.SelectPhoto)
		group.POST("/:id/clear", h.ClearCapture)
		group.POST("/:id/confirm", h.ConfirmCapture)
		group.POST("/:id/skip", h.SkipCapture)
		group.GET("/:id", h.GetCaptureState)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func uploadPhoto(t *testing.T, router *gin.Engine, sessionID, surface, mimeType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="win.img"`)
	if mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("surface", surface))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/capture/"+sessionID+"/select", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)
	return w
}

func waitForReady(t *testing.T, router *gin.Engine, sessionID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		w, parsed := doJSON(t, router, http.MethodGet, "/api/v1/capture/"+sessionID, nil)
		return w.Code == http.StatusOK && parsed["state"] == "ready"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCaptureFlowConfirm(t *testing.T) {
	taskID := uuid.NewString()
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}, tasks: map[string]string{taskID: "u1"}}
	router := newCaptureTestServer(t, store)

	w, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start",
		gin.H{"userUid": "u1", "taskId": taskID})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Snap it!", parsed["prompt"])
	sessionID := parsed["sessionId"].(string)
	require.NotEmpty(t, sessionID)

	photo := bytes.Repeat([]byte{0x42}, 2048)
	w = uploadPhoto(t, router, sessionID, "gallery", "image/png", photo)
	require.Equal(t, http.StatusOK, w.Code)

	waitForReady(t, router, sessionID)

	w, parsed = doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "photo-1", parsed["photoId"])

	saved := store.saved()
	require.Len(t, saved, 1)
	require.Equal(t, "u1", saved[0].userUID)
	require.Equal(t, taskID, saved[0].taskID)
	require.Equal(t, "image/png", saved[0].payload.MimeType)
	require.Equal(t, base64.StdEncoding.EncodeToString(photo), saved[0].payload.Data)

	// The session is gone after confirm.
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/capture/"+sessionID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaptureStartPromptOverride(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	w, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start",
		gin.H{"userUid": "u1", "prompt": "Show off that tidy desk!"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Show off that tidy desk!", parsed["prompt"])
}

func TestCaptureStartUnknownUser(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{}}
	router := newCaptureTestServer(t, store)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "ghost"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaptureStartMalformedTaskID(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	// A task id that is not a uuid never identifies a task; it is rejected
	// before the store is consulted.
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1", "taskId": "not-a-uuid"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Zero(t, store.taskLookups())
}

func TestCaptureConfirmBeforeSelectIsNoOp(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	_, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1"})
	sessionID := parsed["sessionId"].(string)

	w, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, parsed["photoId"])
	require.Empty(t, store.saved())

	// The session is still usable afterwards.
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/capture/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCaptureSkipRecordsNothing(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	_, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1"})
	sessionID := parsed["sessionId"].(string)

	w := uploadPhoto(t, router, sessionID, "gallery", "image/jpeg", []byte("pixels"))
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/skip", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, store.saved())

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/capture/"+sessionID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaptureGalleryRejectsUnsupportedType(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	_, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1"})
	sessionID := parsed["sessionId"].(string)

	w := uploadPhoto(t, router, sessionID, "gallery", "image/gif", []byte("gif"))
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	// The camera surface accepts the broader set.
	w = uploadPhoto(t, router, sessionID, "camera", "image/heic", []byte("heic"))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCaptureMimeTypeDefaultsToJpeg(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	_, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1"})
	sessionID := parsed["sessionId"].(string)

	w := uploadPhoto(t, router, sessionID, "gallery", "", []byte("no declared type"))
	require.Equal(t, http.StatusOK, w.Code)

	waitForReady(t, router, sessionID)

	_, _ = doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/confirm", nil)
	saved := store.saved()
	require.Len(t, saved, 1)
	require.Equal(t, "image/jpeg", saved[0].payload.MimeType)
}

func TestCaptureClearKeepsSessionOpen(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	_, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1"})
	sessionID := parsed["sessionId"].(string)

	w := uploadPhoto(t, router, sessionID, "gallery", "image/png", []byte("pixels"))
	require.Equal(t, http.StatusOK, w.Code)
	waitForReady(t, router, sessionID)

	w, parsed = doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "empty", parsed["state"])
	require.False(t, parsed["hasPreview"].(bool))

	// Confirm after clear submits nothing.
	_, _ = doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/confirm", nil)
	require.Empty(t, store.saved())
}

func TestCaptureConfirmSurfacesStoreFailure(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}, saveErr: errors.New("db down")}
	router := newCaptureTestServer(t, store)

	_, parsed := doJSON(t, router, http.MethodPost, "/api/v1/capture/start", gin.H{"userUid": "u1"})
	sessionID := parsed["sessionId"].(string)

	w := uploadPhoto(t, router, sessionID, "gallery", "image/png", []byte("pixels"))
	require.Equal(t, http.StatusOK, w.Code)
	waitForReady(t, router, sessionID)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/capture/"+sessionID+"/confirm", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCaptureUnknownSessionIs404(t *testing.T) {
	store := &fakeCaptureStore{users: map[string]bool{"u1": true}}
	router := newCaptureTestServer(t, store)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/capture/nope/confirm", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/capture/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
