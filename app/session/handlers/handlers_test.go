package sessionhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var now = time.Date(2024, time.May, 15, 9, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (http.Handler, *session.Manager, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roster := memberdomain.NewDirectory(
		memberdomain.Member{Name: "김철수", Gender: memberdomain.GenderMale, Available: true},
		memberdomain.Member{Name: "이영희", Gender: memberdomain.GenderFemale, Available: true},
	)
	manager := session.NewManager(roster, session.ManagerConfig{Logger: logger, Clock: fixedClock{now}})
	id, _ := manager.Create(context.Background())

	h := NewSessionHandlers(manager, httpapi.NewValidator(), logger)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(httpapi.WithSessionID(req.Context(), id)))
		})
	})
	r.Route("/api/session", h.Routes)
	return r, manager, id
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, sessionResponse) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp sessionResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestSessionHandlers_HandleGet(t *testing.T) {
	h, _, id := newTestRouter(t)

	rr, body := do(t, h, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, body.ID)
	assert.Equal(t, 2, body.Members)
	assert.Equal(t, 2, body.Available)
	assert.Zero(t, body.Groups)
	assert.False(t, body.SummaryReady)
	assert.Nil(t, body.OutingDate)
}

func TestSessionHandlers_HandleReset(t *testing.T) {
	h, manager, id := newTestRouter(t)
	ctx := context.Background()
	_, err := manager.Dispatch(ctx, id, session.SetAvailability{Member: "김철수", Available: false})
	require.NoError(t, err)
	_, err = manager.Dispatch(ctx, id, session.AddMember{Member: "최지우", Gender: memberdomain.GenderFemale})
	require.NoError(t, err)

	rr, body := do(t, h, http.MethodPost, "/api/session/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, body.Members)
	assert.Equal(t, 2, body.Available)
	assert.EqualValues(t, 3, body.Version)
}

func TestSessionHandlers_HandleSetOutingDate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDate   *string
	}{
		{name: "iso date", body: `{"date":"2024-06-01"}`, wantStatus: http.StatusOK, wantDate: strPtr("2024-06-01")},
		{name: "natural language", body: `{"date":"tomorrow"}`, wantStatus: http.StatusOK, wantDate: strPtr("2024-05-16")},
		{name: "empty clears", body: `{"date":""}`, wantStatus: http.StatusOK},
		{name: "unparseable", body: `{"date":"zzqx-qqq"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"day":"2024-06-01"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestRouter(t)
			rr, body := do(t, h, http.MethodPut, "/api/session/outing-date", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantDate, body.OutingDate)
		})
	}
}

func TestSessionHandlers_UnknownSession(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := session.NewManager(memberdomain.NewDirectory(), session.ManagerConfig{Logger: logger})
	h := NewSessionHandlers(manager, httpapi.NewValidator(), logger)

	r := chi.NewRouter()
	r.Route("/api/session", h.Routes)
	rr, _ := do(t, r, http.MethodGet, "/api/session", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func strPtr(s string) *string { return &s }
