package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobhunter/internal/model"
	"github.com/amishk599/jobhunter/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeReader serves canned rows and records the requested limit.
type fakeReader struct {
	rows      []model.ScoredListing
	err       error
	lastLimit int
}

func (f *fakeReader) ScoredListings(_ context.Context, limit int) ([]model.ScoredListing, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func (f *fakeReader) Stats(_ context.Context) (store.Stats, error) {
	return store.Stats{Listings: len(f.rows) + 1, Analyzed: len(f.rows), Pending: 1}, f.err
}

func scored(id int64, title string, remote float64) model.ScoredListing {
	return model.ScoredListing{
		Listing: model.Listing{ID: id, Source: "remoteok", Title: title, URL: fmt.Sprintf("https://example.com/jobs/%d", id)},
		Analysis: model.Analysis{
			ListingID:  id,
			SalaryMin:  model.Float64Ptr(50000),
			SalaryMax:  model.Float64Ptr(80000),
			Remote:     remote,
			Relevance:  0.95,
			EUEligible: 0.9,
			AnalyzedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func newTestEngine(r ListingReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(NewHandler(r, discardLogger()), discardLogger())
}

func do(t *testing.T, engine http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestEngine(&fakeReader{}), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIndex_RendersTable(t *testing.T) {
	reader := &fakeReader{rows: []model.ScoredListing{scored(1, "Go Engineer", 0.9)}}
	w := do(t, newTestEngine(reader), "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Go Engineer")
	assert.Contains(t, body, `href="https://example.com/jobs/1"`)
	assert.Contains(t, body, "$50,000-$80,000")
	assert.Contains(t, body, "0.90")
	assert.Contains(t, body, "2026-03-01 12:00")
	assert.Contains(t, body, "2 listings stored")
	assert.Equal(t, defaultLimit, reader.lastLimit)
}

func TestIndex_Empty(t *testing.T) {
	w := do(t, newTestEngine(&fakeReader{}), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No analyzed listings yet")
}

func TestIndex_EscapesHTML(t *testing.T) {
	reader := &fakeReader{rows: []model.ScoredListing{scored(1, "<script>alert(1)</script>", 0.1)}}
	w := do(t, newTestEngine(reader), "/")
	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
}

func TestListListings_JSON(t *testing.T) {
	reader := &fakeReader{rows: []model.ScoredListing{
		scored(2, "Newer", 0.8),
		scored(1, "Older", 0.2),
	}}
	w := do(t, newTestEngine(reader), "/api/listings?limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Newer", resp.Listings[0].Title)
	assert.Equal(t, 0.8, resp.Listings[0].Remote)
	assert.Equal(t, "$50,000-$80,000", resp.Listings[0].Salary)
	assert.Equal(t, 1, reader.lastLimit)
}

func TestListListings_LimitValidation(t *testing.T) {
	engine := newTestEngine(&fakeReader{})

	for _, q := range []string{"0", "-3", "abc"} {
		w := do(t, engine, "/api/listings?limit="+q)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", q)
	}

	reader := &fakeReader{}
	do(t, newTestEngine(reader), "/api/listings?limit=999999")
	assert.Equal(t, maxLimit, reader.lastLimit)
}

func TestListListings_StoreError(t *testing.T) {
	w := do(t, newTestEngine(&fakeReader{err: errors.New("database is locked")}), "/api/listings")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListListings_FromSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"), discardLogger())
	require.NoError(t, err)
	defer st.Close()

	l := model.NewListing("lever", "https://jobs.lever.co/acme/1", "body", time.Time{})
	l.Title = "Platform Engineer"
	_, err = st.Insert(ctx, &l)
	require.NoError(t, err)
	require.True(t, st.SaveAnalysis(ctx, model.NewAnalysis(l, model.Scores{Remote: 1, Relevance: 1, EUEligible: 1}, time.Now())))

	w := do(t, newTestEngine(st), "/api/listings")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Platform Engineer", resp.Listings[0].Title)
	assert.Equal(t, "Not specified", resp.Listings[0].Salary)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", newTestEngine(&fakeReader{}), discardLogger()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
