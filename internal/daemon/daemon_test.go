package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"yt2audio/internal/api"
	"yt2audio/internal/history"
	"yt2audio/internal/services"
	"yt2audio/internal/testsupport"
)

type stubProcessor struct {
	lastRequest api.ProcessRequest
	processErr  error
	entries     []api.HistoryEntry
	lastMovie   string
	lastLimit   int
	prunes      atomic.Int32
}

func (s *stubProcessor) Process(_ context.Context, req api.ProcessRequest) (api.ProcessResponse, error) {
	s.lastRequest = req
	if s.processErr != nil {
		return api.ProcessResponse{}, s.processErr
	}
	return api.ProcessResponse{RunID: "run-1", MovieID: req.Movie, Command: "download", Outcome: services.OutcomeSucceeded}, nil
}

func (s *stubProcessor) History(_ context.Context, movieID string, limit int) ([]api.HistoryEntry, error) {
	s.lastMovie = movieID
	s.lastLimit = limit
	return s.entries, nil
}

func (s *stubProcessor) Describe(_ context.Context, runID string) (api.HistoryEntry, error) {
	for _, entry := range s.entries {
		if entry.RunID == runID {
			return entry, nil
		}
	}
	return api.HistoryEntry{}, fmt.Errorf("%w: %s", history.ErrNotFound, runID)
}

func (s *stubProcessor) PruneHistory(context.Context) (int64, error) {
	s.prunes.Add(1)
	return 0, nil
}

func newTestRouter(t *testing.T, proc *stubProcessor, opts ...testsupport.ConfigOption) http.Handler {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	d, err := New(cfg, proc, Options{Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return newAPIServer(cfg, d, nil).routes(cfg)
}

func TestHandleProcess(t *testing.T) {
	proc := &stubProcessor{}
	router := newTestRouter(t, proc)

	body := `{"movie":"dQw4w9WgXcQ","command":"split","params":["20"],"senderId":7}`
	req := httptest.NewRequest(http.MethodPost, "/v1/process", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var resp api.ProcessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID != "run-1" || resp.Outcome != services.OutcomeSucceeded {
		t.Fatalf("unexpected response %+v", resp)
	}
	if proc.lastRequest.Command != "split" || proc.lastRequest.Params[0] != "20" || proc.lastRequest.SenderID != 7 {
		t.Fatalf("request not decoded: %+v", proc.lastRequest)
	}
}

func TestHandleProcessErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "malformed body", body: `{"movie":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"video":"x"}`, status: http.StatusBadRequest},
		{name: "validation", body: `{"movie":"nope"}`, err: services.Wrap(services.ErrValidation, "request", "parse", "Request. Unknown video reference.", nil), status: http.StatusBadRequest},
		{name: "busy", body: `{"movie":"dQw4w9WgXcQ"}`, err: services.Wrap(services.ErrTransient, "request", "lock", "busy", nil), status: http.StatusConflict},
		{name: "internal", body: `{"movie":"dQw4w9WgXcQ"}`, err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, &stubProcessor{processErr: tc.err})
			req := httptest.NewRequest(http.MethodPost, "/v1/process", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthRequiredWhenTokenConfigured(t *testing.T) {
	router := newTestRouter(t, &stubProcessor{}, testsupport.WithAPIToken("secret"))

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Fatal("health endpoint must not require auth")
	}
}

func TestHandleHistory(t *testing.T) {
	proc := &stubProcessor{entries: []api.HistoryEntry{{RunID: "run-1", MovieID: "dQw4w9WgXcQ"}}}
	router := newTestRouter(t, proc)

	req := httptest.NewRequest(http.MethodGet, "/v1/history?movie=dQw4w9WgXcQ&limit=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp api.HistoryListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Runs) != 1 || proc.lastMovie != "dQw4w9WgXcQ" || proc.lastLimit != 5 {
		t.Fatalf("unexpected history call: %+v movie=%q limit=%d", resp, proc.lastMovie, proc.lastLimit)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history?limit=-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history/run-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for known run, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/history/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown run, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	d, err := New(cfg, &stubProcessor{}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	router := newAPIServer(cfg, d, nil).routes(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with stubbed tools, got %d: %s", w.Code, w.Body.String())
	}

	cfg.Tools.YtDLP = "clearly-not-present-ytdlp"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with missing yt-dlp, got %d", w.Code)
	}
	var health api.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "degraded" || len(health.Dependencies) != 3 {
		t.Fatalf("unexpected health %+v", health)
	}
}

func TestMetricsRoute(t *testing.T) {
	router := newTestRouter(t, &stubProcessor{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("# metrics")) {
		t.Fatalf("unexpected metrics response %d %q", w.Code, w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &stubProcessor{})
	req := httptest.NewRequest(http.MethodOptions, "/v1/process", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatalf("expected CORS headers, got %v", w.Header())
	}
}

func TestDaemonLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testsupport.NewConfig(t)
	proc := &stubProcessor{}
	d, err := New(cfg, proc, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	second, err := New(cfg, proc, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second daemon on the same store to fail")
	}

	client := &http.Client{}
	resp, err := client.Post("http://"+d.Addr()+"/v1/process", "application/json",
		strings.NewReader(`{"movie":"dQw4w9WgXcQ"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	client.CloseIdleConnections()

	status := d.Status(context.Background())
	if !status.Running || status.Address == "" || status.LockFilePath == "" {
		t.Fatalf("unexpected status %+v", status)
	}

	d.Stop()
	if d.Addr() != "" {
		t.Fatal("expected empty address after stop")
	}
	if proc.prunes.Load() == 0 {
		t.Fatal("expected history pruning to run at startup")
	}
}
