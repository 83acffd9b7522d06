package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/config"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			ShutdownTimeout: time.Second,
			MaxUploadBytes:  1 << 20,
		},
		Groups: config.GroupsConfig{DefaultSize: 2, MinSize: 1, MaxSize: 6},
		Session: config.SessionConfig{
			TTL:        time.Hour,
			CookieName: "session_id",
		},
		Observability: config.ObservabilityConfig{
			Environment:    "development",
			LogLevel:       "error",
			MetricsEnabled: true,
			ServiceName:    "outing-test",
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *App) {
	t.Helper()
	cfg := testConfig()
	obs := observability.New(cfg.Observability, io.Discard)
	roster := memberdomain.NewDirectory(
		memberdomain.Member{Name: "김철수", Gender: memberdomain.GenderMale, Available: true},
		memberdomain.Member{Name: "이영희", Gender: memberdomain.GenderFemale, Available: true},
		memberdomain.Member{Name: "박민수", Gender: memberdomain.GenderMale, Available: true},
		memberdomain.Member{Name: "최지우", Gender: memberdomain.GenderFemale, Available: true},
	)

	a, err := NewAppWithRoster(context.Background(), cfg, obs, roster, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}, a
}

func call(t *testing.T, c *http.Client, method, url, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestApp_OutingFlow(t *testing.T) {
	srv, client, a := newTestServer(t)

	status, body := call(t, client, http.MethodGet, srv.URL+"/api/session", "")
	require.Equal(t, http.StatusOK, status, string(body))
	var sess struct {
		ID      string `json:"id"`
		Members int    `json:"members"`
	}
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 4, sess.Members)
	assert.Equal(t, 1, a.Sessions.Len())

	status, body = call(t, client, http.MethodPost, srv.URL+"/api/leaderboard/summary", "")
	assert.Equal(t, http.StatusConflict, status, string(body))

	status, body = call(t, client, http.MethodPost, srv.URL+"/api/groups/allocate", "")
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = call(t, client, http.MethodPut, srv.URL+"/api/scores/김철수/rounds/1/holes/1", `{"strokes":4}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = call(t, client, http.MethodPut, srv.URL+"/api/scores/김철수/rounds/1/holes/2", `{"strokes":25}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status, string(body))

	status, body = call(t, client, http.MethodPost, srv.URL+"/api/leaderboard/summary", "")
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), "김철수")

	status, body = call(t, client, http.MethodGet, srv.URL+"/api/leaderboard/summary.csv", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Player")

	// The cookie keeps every request on the same session.
	assert.Equal(t, 1, a.Sessions.Len())
}

func TestApp_SessionsAreIsolated(t *testing.T) {
	srv, alice, _ := newTestServer(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	bob := &http.Client{Jar: jar}

	status, _ := call(t, alice, http.MethodPut, srv.URL+"/api/members/김철수/availability", `{"available":false}`)
	require.Equal(t, http.StatusOK, status)

	_, body := call(t, bob, http.MethodGet, srv.URL+"/api/members", "")
	var dir struct {
		Available int `json:"available_count"`
	}
	require.NoError(t, json.Unmarshal(body, &dir))
	assert.Equal(t, 4, dir.Available)
}

func TestApp_HealthAndMetrics(t *testing.T) {
	srv, client, _ := newTestServer(t)

	status, body := call(t, client, http.MethodGet, srv.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)

	status, _ = call(t, client, http.MethodPut, srv.URL+"/api/session/outing-date", `{"date":"2024-06-01"}`)
	require.Equal(t, http.StatusOK, status)

	require.Eventually(t, func() bool {
		_, body := call(t, client, http.MethodGet, srv.URL+"/metrics", "")
		return strings.Contains(string(body), `outing_events_total{type="session.outing_date_set"} 1`)
	}, 2*time.Second, 20*time.Millisecond)

	_, body = call(t, client, http.MethodGet, srv.URL+"/metrics", "")
	assert.Contains(t, string(body), "outing_operations_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewApp_RosterLoadError(t *testing.T) {
	cfg := testConfig()
	cfg.Roster.Path = filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(cfg.Roster.Path, []byte("회원이름,성별\ntitle,\n김철수,unknown\n"), 0o600))

	_, err := NewApp(context.Background(), cfg, observability.New(cfg.Observability, io.Discard), Options{})
	var loadErr *memberdomain.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestApp_ServeShutsDown(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Addr = "127.0.0.1:0"
	a, err := NewAppWithRoster(context.Background(), cfg, observability.New(cfg.Observability, io.Discard), memberdomain.NewDirectory(), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
