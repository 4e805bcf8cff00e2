package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoemporium/showroom-assistant/internal/agent/model"
	"github.com/autoemporium/showroom-assistant/internal/config"
	errx "github.com/autoemporium/showroom-assistant/internal/core/error"
)

type fakeRunner struct {
	out        model.TurnOutput
	err        error
	journey    model.Journey
	deleteOK   bool
	lastThread string
	lastUser   string
	lastMsg    string
}

func (f *fakeRunner) ProcessTurn(_ context.Context, threadID, userID, message string) (model.TurnOutput, error) {
	f.lastThread, f.lastUser, f.lastMsg = threadID, userID, message
	return f.out, f.err
}

func (f *fakeRunner) GetJourney(_ context.Context, threadID string) (model.Journey, error) {
	f.lastThread = threadID
	return f.journey, f.err
}

func (f *fakeRunner) DeleteAllSessions(context.Context) bool {
	return f.deleteOK
}

func newTestServer(r *fakeRunner) *Server {
	return New(config.HTTPConfig{Port: 8001, CORSOrigins: "*"}, r)
}

func do(t *testing.T, s *Server, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestChat(t *testing.T) {
	r := &fakeRunner{out: model.TurnOutput{
		ResponseText: "Which body type do you prefer?",
		Journey:      model.Journey{Stage: model.Ptr(model.StageNeedsAnalysis), Body: model.Ptr("suv")},
	}}
	s := newTestServer(r)

	status, body := do(t, s, http.MethodPost, "/chat", `{"message":" I want an SUV ","session_id":"s-1","user_id":"u-1"}`)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Which body type do you prefer?", body["response"])
	assert.Equal(t, "s-1", body["session_id"])
	state := body["state"].(map[string]any)
	assert.Equal(t, "needs_analysis", state["stage"])
	assert.Equal(t, "suv", state["body"])
	assert.Nil(t, state["model"])
	assert.Equal(t, false, state["test_drive_completed"])

	assert.Equal(t, "s-1", r.lastThread)
	assert.Equal(t, "u-1", r.lastUser)
	assert.Equal(t, "I want an SUV", r.lastMsg)
}

func TestChatGeneratesSessionID(t *testing.T) {
	r := &fakeRunner{out: model.TurnOutput{ResponseText: "hello"}}
	s := newTestServer(r)

	status, body := do(t, s, http.MethodPost, "/chat", `{"message":"hi","user_id":"u-1"}`)

	require.Equal(t, http.StatusOK, status)
	assert.Regexp(t, regexp.MustCompile(`^session_[0-9a-f]{16}$`), body["session_id"])
	assert.Equal(t, body["session_id"], r.lastThread)
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing user", `{"message":"hi"}`, "user_id is required"},
		{"blank message", `{"message":"   ","user_id":"u-1"}`, "message is required"},
		{"not json", `hello`, "JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{}
			status, body := do(t, newTestServer(r), http.MethodPost, "/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body["error"], tt.want)
			assert.Empty(t, r.lastUser, "runner must not be called")
		})
	}
}

func TestChatTurnFailureHidesCause(t *testing.T) {
	r := &fakeRunner{err: errx.WrapCheckpoint(errors.New("redis: connection refused"))}

	status, body := do(t, newTestServer(r), http.MethodPost, "/chat", `{"message":"hi","user_id":"u-1"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, errx.SystemErrorMessage, body["error"])
}

func TestJourney(t *testing.T) {
	r := &fakeRunner{journey: model.Journey{Model: model.Ptr("xc90"), TestDriveCompleted: true}}
	s := newTestServer(r)

	status, body := do(t, s, http.MethodGet, "/journey/s-9?user_id=u-1", "")
	require.Equal(t, http.StatusOK, status)
	state := body["state"].(map[string]any)
	assert.Equal(t, "xc90", state["model"])
	assert.Equal(t, true, state["test_drive_completed"])
	assert.Equal(t, "s-9", r.lastThread)

	status, body = do(t, s, http.MethodGet, "/journey/s-9", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "user_id is required")
}

func TestDeleteAllSessions(t *testing.T) {
	status, body := do(t, newTestServer(&fakeRunner{deleteOK: true}), http.MethodDelete, "/sessions/all", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = do(t, newTestServer(&fakeRunner{deleteOK: false}), http.MethodDelete, "/sessions/all", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "failed to delete all sessions", body["message"])
}

func TestHealth(t *testing.T) {
	status, body := do(t, newTestServer(&fakeRunner{}), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestUnknownRoute(t *testing.T) {
	status, body := do(t, newTestServer(&fakeRunner{}), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
}

func TestNewSessionIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
