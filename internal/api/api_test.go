package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/vitrine/internal/content"
	"github.com/starford/vitrine/internal/reveal"
	"github.com/starford/vitrine/internal/siteservice"
	"github.com/starford/vitrine/internal/source"
	"github.com/starford/vitrine/internal/testutil"
)

const (
	testConfigs = `[
		{"key":"general_info","value":{"name":"Ana Souza","crp":"06/123"}},
		{"key":"specialization_section","value":{"title":"Minhas (especialidades)"}}
	]`
	testExpertise = `[
		{"id":1,"title":"Ansiedade","icon":"Heart","order":2},
		{"id":2,"title":"Luto","icon":"Nope","order":1},
		{"id":3,"title":"Oculto","isActive":false}
	]`
)

// testEnv wires a service backed by a fake content API, refreshes it once and
// returns the router.
func testEnv(t *testing.T, authToken string) (*siteservice.Service, *reveal.Observer, http.Handler, *testutil.ContentServer) {
	t.Helper()
	srv := testutil.NewContentServer(t, testConfigs, testExpertise)
	svc := siteservice.New(source.NewHTTP(srv.URL), siteservice.WithLogger(testutil.Logger()))
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	obs := reveal.NewObserver(reveal.DefaultOptions())
	t.Cleanup(obs.Close)
	router := NewRouter(svc, obs, authToken != "", authToken, nil)
	return svc, obs, router, srv
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v (body %q)", err, w.Body.String())
	}
	return v
}

func TestListSections(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/sections", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
	resp := decode[struct {
		Version  uint64                     `json:"version"`
		Sections map[string]json.RawMessage `json:"sections"`
	}](t, w)
	if resp.Version == 0 {
		t.Fatal("expected non-zero version after refresh")
	}
	for _, key := range content.Keys {
		if _, ok := resp.Sections[key]; !ok {
			t.Errorf("missing section %q", key)
		}
	}
}

func TestGetSection(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/sections/"+content.KeyGeneralInfo, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[struct {
		Key     string              `json:"key"`
		Section content.GeneralInfo `json:"section"`
	}](t, w)
	if resp.Key != content.KeyGeneralInfo || resp.Section.Name != "Ana Souza" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetSection_Unknown(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/sections/pricing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListExpertise_FilteredAndOrdered(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/expertise", "")
	resp := decode[struct {
		Cards []struct {
			Title struct {
				Raw string `json:"raw"`
			} `json:"title"`
			Icon string `json:"icon"`
		} `json:"cards"`
	}](t, w)
	if len(resp.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(resp.Cards))
	}
	if resp.Cards[0].Title.Raw != "Luto" || resp.Cards[1].Title.Raw != "Ansiedade" {
		t.Fatalf("order = %q, %q", resp.Cards[0].Title.Raw, resp.Cards[1].Title.Raw)
	}
	if resp.Cards[0].Icon != "Brain" {
		t.Fatalf("unknown icon resolved to %q, want Brain", resp.Cards[0].Icon)
	}
}

func TestSplitGradient(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/gradient?text=Minhas+%28especialidades%29", "")
	resp := decode[struct {
		Segments []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"segments"`
	}](t, w)
	if len(resp.Segments) != 2 {
		t.Fatalf("segments = %+v", resp.Segments)
	}
	if resp.Segments[1].Kind != "emphasized" || resp.Segments[1].Text != "especialidades" {
		t.Fatalf("second segment = %+v", resp.Segments[1])
	}
}

func TestStatus(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/status", "")
	resp := decode[StatusResponse](t, w)
	if len(resp.Stores) != 2 {
		t.Fatalf("stores = %d", len(resp.Stores))
	}
	if resp.Stores[0].Name != "config" || resp.Stores[1].Name != "expertise" {
		t.Fatalf("store names = %q, %q", resp.Stores[0].Name, resp.Stores[1].Name)
	}
	if resp.Reveal.Threshold != 0.1 || resp.Reveal.RootMargin.Bottom != -50 {
		t.Fatalf("reveal options = %+v", resp.Reveal)
	}
}

func TestRefresh_AuthRequired(t *testing.T) {
	_, _, router, srv := testEnv(t, "secret")

	w := doJSON(t, router, http.MethodPost, "/refresh", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/refresh", "", "Authorization", "Bearer wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", w.Code)
	}

	srv.SetConfigs(`[{"key":"general_info","value":{"name":"Beatriz"}}]`)
	w = doJSON(t, router, http.MethodPost, "/refresh", "", "Authorization", "Bearer secret")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// Reads stay public.
	w = doJSON(t, router, http.MethodGet, "/sections/general_info", "")
	if !strings.Contains(w.Body.String(), "Beatriz") {
		t.Fatalf("refresh not visible: %s", w.Body.String())
	}
}

func TestRefresh_UpstreamFailureKeepsSnapshot(t *testing.T) {
	_, _, router, srv := testEnv(t, "")

	srv.SetStatus(http.StatusInternalServerError)
	w := doJSON(t, router, http.MethodPost, "/refresh", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/sections/general_info", "")
	if !strings.Contains(w.Body.String(), "Ana Souza") {
		t.Fatalf("last good snapshot lost: %s", w.Body.String())
	}
}

func TestReveal_Lifecycle(t *testing.T) {
	_, obs, router, _ := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/reveal", `{"section":"specialization_section"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("mount status = %d, body = %s", w.Code, w.Body.String())
	}
	// Motions carry durations in seconds; only the resolved cues are checked.
	mounted := decode[struct {
		ID    string       `json:"id"`
		State reveal.State `json:"state"`
		Cues  []reveal.Cue `json:"cues"`
	}](t, w)
	if mounted.State != reveal.Hidden {
		t.Fatalf("mounted state = %q", mounted.State)
	}
	// Header plus two active cards.
	if len(mounted.Cues) != 3 {
		t.Fatalf("cues = %d, want 3", len(mounted.Cues))
	}
	if mounted.Cues[1].Frame.Opacity != 0 {
		t.Fatalf("hidden cue should hold the initial frame: %+v", mounted.Cues[1])
	}
	if obs.Len() != 1 {
		t.Fatalf("observer len = %d", obs.Len())
	}

	path := "/reveal/" + mounted.ID + "/entries"

	// Below the viewport: stays hidden.
	w = doJSON(t, router, http.MethodPost, path,
		`{"target":{"x":0,"y":2000,"width":800,"height":400},"root":{"x":0,"y":0,"width":800,"height":900}}`)
	rep := decode[ReportResponse](t, w)
	if rep.State != reveal.Hidden || rep.Changed {
		t.Fatalf("off-screen report = %+v", rep)
	}

	// Half inside: becomes visible once.
	w = doJSON(t, router, http.MethodPost, path,
		`{"target":{"x":0,"y":500,"width":800,"height":400},"root":{"x":0,"y":0,"width":800,"height":900}}`)
	rep = decode[ReportResponse](t, w)
	if rep.State != reveal.Visible || !rep.Changed {
		t.Fatalf("in-view report = %+v", rep)
	}
	if rep.Cues[0].Frame.Opacity != 1 || rep.Cues[0].Frame.Y != 0 {
		t.Fatalf("visible cue should hold the target frame: %+v", rep.Cues[0])
	}

	// Scrolling away never hides it again.
	w = doJSON(t, router, http.MethodPost, path,
		`{"target":{"x":0,"y":-2000,"width":800,"height":400},"root":{"x":0,"y":0,"width":800,"height":900}}`)
	rep = decode[ReportResponse](t, w)
	if rep.State != reveal.Visible || rep.Changed {
		t.Fatalf("after scroll-away = %+v", rep)
	}

	w = doJSON(t, router, http.MethodDelete, "/reveal/"+mounted.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("unmount status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, path, `{"target":{},"root":{}}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("report after unmount status = %d, want 404", w.Code)
	}
}

func TestReveal_MountValidation(t *testing.T) {
	_, _, router, _ := testEnv(t, "")

	if w := doJSON(t, router, http.MethodPost, "/reveal", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty section: status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/reveal", `{"section":"pricing"}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown section: status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/reveal", `not json`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d", w.Code)
	}
}

func TestReveal_MountAfterClose(t *testing.T) {
	_, obs, router, _ := testEnv(t, "")
	obs.Close()

	w := doJSON(t, router, http.MethodPost, "/reveal", `{"section":"about_section"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
