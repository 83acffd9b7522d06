package leaderboardhandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	"github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/infrastructure/trackrecord"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

const pngMagic = "\x89PNG\r\n\x1a\n"

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)

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

	h := NewLeaderboardHandlers(manager, fixedClock{now: testNow}, 1<<20, logger, noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(httpapi.WithSessionID(req.Context(), id)))
		})
	})
	r.Route("/api/leaderboard", h.Routes)
	return r, manager, id
}

func seedScores(t *testing.T, manager *session.Manager, id string) {
	t.Helper()
	ctx := context.Background()
	cmds := []session.Command{
		session.SetGroups{Groups: []groupservice.Group{{"김철수", "이영희"}, {"박민수"}}},
		session.RecordScore{Member: "김철수", Round: 1, Hole: 1, Score: scoredomain.Strokes(4)},
		session.RecordScore{Member: "김철수", Round: 1, Hole: 2, Score: scoredomain.Strokes(5)},
		session.RecordScore{Member: "이영희", Round: 2, Hole: 1, Score: scoredomain.Strokes(6)},
	}
	for _, c := range cmds {
		_, err := manager.Dispatch(ctx, id, c)
		require.NoError(t, err)
	}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestLeaderboardHandlers_SummaryLifecycle(t *testing.T) {
	h, manager, id := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/leaderboard/summary")
	assert.Equal(t, http.StatusConflict, rr.Code, "no groups yet")
	rr = do(t, h, http.MethodGet, "/api/leaderboard/summary")
	assert.Equal(t, http.StatusConflict, rr.Code, "no summary yet")
	rr = do(t, h, http.MethodGet, "/api/leaderboard/summary.csv")
	assert.Equal(t, http.StatusConflict, rr.Code)

	seedScores(t, manager, id)

	rr = do(t, h, http.MethodPost, "/api/leaderboard/summary")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp summaryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, testNow.Equal(resp.GeneratedAt))
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, []string{"김철수", "9", "-", "-", "-", "9", "4", "5"}, resp.Rows[0])
	assert.Equal(t, []string{"박민수", "-", "-", "-", "-", "-", "-", "-"}, resp.Rows[2])
	require.NotNil(t, resp.Players[1].RoundTotals[1])
	assert.Equal(t, 6, *resp.Players[1].RoundTotals[1])

	rr = do(t, h, http.MethodGet, "/api/leaderboard/summary")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/leaderboard/summary.csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "golf_scores_summary.csv")
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Player,Round 1 Total,Round 2 Total,Round 3 Total,Round 4 Total,Overall Total,Best Score,Worst Score", strings.TrimSpace(lines[0]))
}

func TestLeaderboardHandlers_Charts(t *testing.T) {
	h, manager, id := newTestRouter(t)

	rr := do(t, h, http.MethodGet, "/api/leaderboard/charts/groups")
	assert.Equal(t, http.StatusConflict, rr.Code)

	_, err := manager.Dispatch(context.Background(), id, session.SetGroups{Groups: []groupservice.Group{{"김철수"}}})
	require.NoError(t, err)
	rr = do(t, h, http.MethodGet, "/api/leaderboard/charts/groups")
	assert.Equal(t, http.StatusNotFound, rr.Code, "no scores recorded")
	rr = do(t, h, http.MethodGet, "/api/leaderboard/charts/player/"+url.PathEscape("김철수"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	seedScores(t, manager, id)

	rr = do(t, h, http.MethodGet, "/api/leaderboard/charts/groups")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), pngMagic))

	rr = do(t, h, http.MethodGet, "/api/leaderboard/charts/player/"+url.PathEscape("김철수"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), pngMagic))

	rr = do(t, h, http.MethodGet, "/api/leaderboard/charts/player/nobody")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func historyWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Player", "Overall Total", "Outing Date"},
		{"김철수", 41, "2026-09-12"},
	}
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(trackrecord.SheetName, ref, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "golf_scores.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard/track-record", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestLeaderboardHandlers_HandleTrackRecord(t *testing.T) {
	h, manager, id := newTestRouter(t)
	seedScores(t, manager, id)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "file", historyWorkbook(t)))
	assert.Equal(t, http.StatusConflict, rr.Code, "summary required first")

	ctx := context.Background()
	_, err := manager.Dispatch(ctx, id, session.GenerateSummary{At: testNow})
	require.NoError(t, err)
	_, err = manager.Dispatch(ctx, id, session.SetOutingDate{Date: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), Raw: "2026-10-17"})
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "file", historyWorkbook(t)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), trackrecord.UpdatedWorkbookName)

	merged, err := trackrecord.ReadHistory(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Overall Total", "Outing Date", "Round 1 Total", "Round 2 Total", "Round 3 Total", "Round 4 Total", "Best Score", "Worst Score"}, merged.Header)
	require.Len(t, merged.Rows, 4)
	assert.Equal(t, "2026-09-12", merged.Rows[0][2])
	assert.Equal(t, "2026-10-17", merged.Rows[1][2])
	assert.Equal(t, "", merged.Rows[0][3])

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "file", []byte("not a workbook")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, "other", historyWorkbook(t)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
