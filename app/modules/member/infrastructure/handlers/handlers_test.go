package memberhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

func newTestRouter(t *testing.T) (http.Handler, *session.Manager, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roster := memberdomain.NewDirectory(
		memberdomain.Member{Name: "김철수", Gender: memberdomain.GenderMale, Available: true},
		memberdomain.Member{Name: "이영희", Gender: memberdomain.GenderFemale, Available: true},
		memberdomain.Member{Name: "박민수", Gender: memberdomain.GenderMale, Available: true},
	)
	manager := session.NewManager(roster, session.ManagerConfig{Logger: logger})
	id, _ := manager.Create(context.Background())

	h := NewMemberHandlers(manager, httpapi.NewValidator(), logger, noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(httpapi.WithSessionID(req.Context(), id)))
		})
	})
	r.Route("/api/members", h.Routes)
	return r, manager, id
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMemberHandlers_HandleList(t *testing.T) {
	h, manager, id := newTestRouter(t)
	_, err := manager.Dispatch(context.Background(), id, session.SetAvailability{Member: "박민수", Available: false})
	require.NoError(t, err)

	rr := do(t, h, http.MethodGet, "/api/members", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body directoryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Available)
	assert.Equal(t, 1, body.Unavailable)
	assert.Equal(t, []string{"박민수"}, body.Availability.Unavailable)
	assert.Equal(t, "김철수", body.Members[0].Name)
}

func TestMemberHandlers_HandleAdd(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAdded  bool
	}{
		{name: "new member", body: `{"name":"정하늘","gender":"여"}`, wantStatus: http.StatusCreated, wantAdded: true},
		{name: "existing member", body: `{"name":"김철수","gender":"Female"}`, wantStatus: http.StatusOK},
		{name: "missing name", body: `{"gender":"Male"}`, wantStatus: http.StatusBadRequest},
		{name: "blank name", body: `{"name":"   ","gender":"Male"}`, wantStatus: http.StatusBadRequest},
		{name: "bad gender", body: `{"name":"정하늘","gender":"?"}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestRouter(t)
			rr := do(t, h, http.MethodPost, "/api/members", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if rr.Code >= 300 {
				return
			}
			var body addMemberResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantAdded, body.Added)
			assert.True(t, body.Member.Available)
		})
	}
}

func TestMemberHandlers_HandleRemove(t *testing.T) {
	h, manager, id := newTestRouter(t)

	rr := do(t, h, http.MethodDelete, "/api/members", `{"names":["이영희","없는사람"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var body removeMembersResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, []string{"이영희"}, body.Removed)

	state, err := manager.Get(id)
	require.NoError(t, err)
	assert.False(t, state.Directory.Has("이영희"))

	rr = do(t, h, http.MethodDelete, "/api/members", `{"names":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMemberHandlers_HandleSetAvailability(t *testing.T) {
	h, _, _ := newTestRouter(t)

	target := "/api/members/" + url.PathEscape("김철수") + "/availability"
	rr := do(t, h, http.MethodPut, target, `{"available":false}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var m memberdomain.Member
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	assert.Equal(t, "김철수", m.Name)
	assert.False(t, m.Available)

	rr = do(t, h, http.MethodPut, "/api/members/nobody/availability", `{"available":true}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPut, target, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
