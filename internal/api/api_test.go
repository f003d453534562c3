package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/catalog"
	"github.com/starford/hieroscope/internal/models"
	"github.com/starford/hieroscope/internal/testutil"
)

var testNow = time.Date(2025, time.February, 20, 9, 0, 0, 0, time.UTC)

func testCatalog() catalog.Static {
	return catalog.Static{
		testutil.Entry("Risshun", "02-04"),
		testutil.Entry("Usui", "02-19"),
		testutil.Entry("Keichun", "03-06"),
	}
}

// testEnv wires a service over the test catalog and returns its router.
// A non-empty authToken enables token mode.
func testEnv(t *testing.T, authToken string) (*testutil.Env, http.Handler) {
	t.Helper()
	env := testutil.TestService(t, testCatalog(), testNow)
	return env, NewRouter(env.Service, authToken != "", authToken, nil)
}

func do(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestSeason_DefaultsToNowAndFullDetail(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/season", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[SeasonResponse](t, w)
	if resp.Date != "2025-02-20" || resp.Detail != models.DetailFull {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Season.ID != "Usui" || resp.Season.Description != "Usui description" || resp.Empty {
		t.Errorf("season = %+v", resp.Season)
	}
}

func TestSeason_DateAndDetail(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/season?date=2025-02-03&detail=minimal", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[SeasonResponse](t, w)
	if resp.Season.ID != "Keichun" {
		t.Errorf("02-03 season = %q, want Keichun", resp.Season.ID)
	}
	if resp.Season.Notes != "" {
		t.Errorf("minimal detail leaked notes: %+v", resp.Season)
	}
}

func TestSeason_BadInput(t *testing.T) {
	_, router := testEnv(t, "")
	for _, target := range []string{
		"/season?date=20-02-2025",
		"/season?at=yesterday",
		"/season?detail=everything",
	} {
		if w := do(t, router, http.MethodGet, target, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", target, w.Code)
		}
	}
}

func TestSeason_EmptyCatalog(t *testing.T) {
	env := testutil.TestService(t, catalog.Static{}, testNow)
	router := NewRouter(env.Service, false, "", nil)

	resp := decode[SeasonResponse](t, do(t, router, http.MethodGet, "/season", nil))
	if !resp.Empty || !resp.Season.IsEmpty() {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCatalog_ETag(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[CatalogResponse](t, w)
	if len(resp.Sekki) != 3 || resp.Sekki[2].ID != "Keichun" {
		t.Errorf("catalog = %+v", resp.Sekki)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("conditional get = %d, want 304", w.Code)
	}
}

func TestCatalogEntry(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/catalog/Usui", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if e := decode[models.SeasonEntry](t, w); e.StartDate != "02-19" || e.Symbol != "<Usui>" {
		t.Errorf("entry = %+v", e)
	}
	if w := do(t, router, http.MethodGet, "/catalog/Taisho", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing entry = %d, want 404", w.Code)
	}
}

type unavailableProvider struct{}

func (unavailableProvider) Load(context.Context) ([]models.SeasonEntry, error) {
	return nil, fmt.Errorf("catalog: read: %w", apperr.ErrResourceUnavailable)
}

func TestCatalog_Unavailable(t *testing.T) {
	env := testutil.TestService(t, unavailableProvider{}, testNow)
	router := NewRouter(env.Service, false, "", nil)

	for _, target := range []string{"/catalog", "/catalog/Usui"} {
		if w := do(t, router, http.MethodGet, target, nil); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d, want 503", target, w.Code)
		}
	}
	// Resolution degrades to the empty result instead of failing.
	resp := decode[SeasonResponse](t, do(t, router, http.MethodGet, "/season", nil))
	if !resp.Empty {
		t.Errorf("season = %+v, want empty", resp)
	}
}

func TestPreference_RoundTrip(t *testing.T) {
	env, router := testEnv(t, "")

	resp := decode[PreferenceResponse](t, do(t, router, http.MethodGet, "/preference", nil))
	if resp.DisplayOption != models.DefaultDisplayOption {
		t.Errorf("default = %q", resp.DisplayOption)
	}

	w := do(t, router, http.MethodPut, "/preference", UpdatePreferenceRequest{DisplayOption: "Mantras"})
	if w.Code != http.StatusOK {
		t.Fatalf("put = %d, body = %s", w.Code, w.Body.String())
	}
	resp = decode[PreferenceResponse](t, do(t, router, http.MethodGet, "/preference", nil))
	if resp.DisplayOption != models.OptionMantras {
		t.Errorf("after put = %q", resp.DisplayOption)
	}
	if len(*env.Events) != 1 {
		t.Errorf("events = %v, want one preference event", *env.Events)
	}
}

func TestPreference_Invalid(t *testing.T) {
	env, router := testEnv(t, "")

	for _, body := range []any{
		UpdatePreferenceRequest{DisplayOption: "Horoscopes"},
		UpdatePreferenceRequest{},
		"not an object",
	} {
		if w := do(t, router, http.MethodPut, "/preference", body); w.Code != http.StatusBadRequest {
			t.Errorf("put %v = %d, want 400", body, w.Code)
		}
	}
	if len(*env.Events) != 0 {
		t.Errorf("invalid puts notified: %v", *env.Events)
	}
}

func TestOptions(t *testing.T) {
	_, router := testEnv(t, "")
	resp := decode[OptionsResponse](t, do(t, router, http.MethodGet, "/options", nil))
	if len(resp.Options) != 3 || resp.Selected != models.OptionSmallSeasons {
		t.Errorf("options = %+v", resp)
	}
}

func TestWidget(t *testing.T) {
	env, router := testEnv(t, "")

	resp := decode[WidgetResponse](t, do(t, router, http.MethodGet, "/widget?size=large", nil))
	if resp.Text != "<Usui>\nUsui\nUsui notes" {
		t.Errorf("large text = %q", resp.Text)
	}

	if err := env.Service.SetDisplayOption(context.Background(), models.OptionDaysOfWeek); err != nil {
		t.Fatal(err)
	}
	resp = decode[WidgetResponse](t, do(t, router, http.MethodGet, "/widget?at=2025-02-22T10:00:00Z", nil))
	if resp.Text != "Saturday" || resp.Size != models.SizeSmall {
		t.Errorf("resp = %+v", resp)
	}

	if w := do(t, router, http.MethodGet, "/widget?size=huge", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad size = %d, want 400", w.Code)
	}
}

func TestTimeline(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/timeline?size=medium", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	tl := decode[models.Timeline](t, w)
	if len(tl.Entries) != 4 {
		t.Fatalf("entries = %d", len(tl.Entries))
	}
	if tl.Entries[0].Text != "Usui\nUsui notes" || len(tl.Entries[0].Icons) != 4 {
		t.Errorf("first entry = %+v", tl.Entries[0])
	}
	if !tl.ReloadAfter.Equal(time.Date(2025, time.February, 21, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("reload after = %v", tl.ReloadAfter)
	}
}

func TestIcons_StableWithinDay(t *testing.T) {
	_, router := testEnv(t, "")

	first := decode[IconsResponse](t, do(t, router, http.MethodGet, "/icons?at=2025-02-20T08:00:00Z", nil))
	second := decode[IconsResponse](t, do(t, router, http.MethodGet, "/icons?at=2025-02-20T22:00:00Z", nil))
	if len(first.Icons) != 4 {
		t.Fatalf("icons = %v", first.Icons)
	}
	for i := range first.Icons {
		if first.Icons[i] != second.Icons[i] {
			t.Fatalf("icons changed within a day: %v -> %v", first.Icons, second.Icons)
		}
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/season", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	if w := do(t, router, http.MethodGet, "/season", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	for _, header := range []string{"Bearer wrong", "secret123", "Basic secret123"} {
		req := httptest.NewRequest(http.MethodGet, "/season", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%q = %d, want 401", header, w.Code)
		}
	}
}

// SSE endpoint auth tests.

func testEnvWithSSE(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	env := testutil.TestService(t, testCatalog(), testNow)

	// Writes headers and blocks until the request context is done.
	sseHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
	return NewRouter(env.Service, authEnabled, token, sseHandler)
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvWithSSE(t, true, "secret")

	if w := do(t, router, http.MethodGet, "/events", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router := testEnvWithSSE(t, true, "tok")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with valid token = %d, want 200", w.Code)
	}
}

func TestSSEEvents_NotMountedWithoutHandler(t *testing.T) {
	_, router := testEnv(t, "")
	if w := do(t, router, http.MethodGet, "/events", nil); w.Code != http.StatusNotFound {
		t.Errorf("events = %d, want 404", w.Code)
	}
}
