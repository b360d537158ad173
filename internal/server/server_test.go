package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/detector"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gate"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/gesture"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/recipe"
	"github.com/hack-n-roll-n-food-2026/Snap2Serve/internal/store"
)

type testEnv struct {
	server      *Server
	coordinator *gate.Coordinator
	store       *store.Store
	applied     []store.GateSettings
}

// newTestEnv builds a server over a real store and coordinator. The gate
// starts disabled so recipe requests pass straight through unless a test
// enables it.
func newTestEnv(t *testing.T, backendURL string) *testEnv {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "gate.db"))
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	factory := gesture.NewFactory(gesture.ModePose, gesture.DefaultConfig())
	coordinator := gate.NewCoordinator(gate.Options{
		Enabled:   false,
		Target:    3,
		TimeLimit: 30 * time.Second,
		Settle:    5 * time.Millisecond,
		NewScorer: func() gate.SampleScorer { return factory.New() },
	})

	env := &testEnv{coordinator: coordinator, store: st}
	var recipes *recipe.Client
	if backendURL != "" {
		recipes = recipe.NewClient(backendURL)
	}
	env.server = New(Config{
		Store:       st,
		Coordinator: coordinator,
		Recipes:     recipes,
		ApplySettings: func(gs store.GateSettings) {
			env.applied = append(env.applied, gs)
		},
	})
	return env
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, "")

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health body = %v", body)
	}

	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/health status = %d, want 405", rec.Code)
	}
}

func TestServer_GateStatus(t *testing.T) {
	env := newTestEnv(t, "")

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gate", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("gate status = %d", rec.Code)
	}

	var st gate.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode gate status: %v", err)
	}
	if st.Active || st.State != "idle" || st.Target != 3 {
		t.Errorf("gate status = %+v", st)
	}
}

func TestServer_GateCancel(t *testing.T) {
	env := newTestEnv(t, "")

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/gate/cancel", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("cancel status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gate/cancel", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET cancel status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gate/bogus", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown gate path status = %d, want 404", rec.Code)
	}
}

func TestServer_SettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t, "")

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET settings status = %d", rec.Code)
	}
	var got map[string]any
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got["target"] != float64(50) || got["mode"] != "pose" {
		t.Errorf("default settings = %v", got)
	}

	payload := `{"enabled":true,"target":10,"time_limit_s":20,"mode":"motion","cooldown_ms":500}`
	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT settings status = %d: %s", rec.Code, rec.Body.String())
	}

	if len(env.applied) != 1 || env.applied[0].Target != 10 || env.applied[0].Mode != "motion" {
		t.Errorf("applied settings = %+v, want the saved payload pushed live", env.applied)
	}

	gs, err := env.store.Settings().LoadGate()
	if err != nil {
		t.Fatalf("LoadGate() error: %v", err)
	}
	if gs.Target != 10 || gs.TimeLimitS != 20 || gs.Mode != "motion" || gs.CooldownMs != 500 {
		t.Errorf("persisted settings = %+v", gs)
	}
}

func TestServer_SettingsValidation(t *testing.T) {
	env := newTestEnv(t, "")

	bad := []string{
		`{"enabled":true,"target":0,"time_limit_s":20,"mode":"pose","cooldown_ms":0}`,
		`{"enabled":true,"target":5,"time_limit_s":-1,"mode":"pose","cooldown_ms":0}`,
		`{"enabled":true,"target":5,"time_limit_s":20,"mode":"telepathy","cooldown_ms":0}`,
		`{"enabled":true,"target":5,"time_limit_s":20,"mode":"pose","cooldown_ms":-1}`,
		`not json`,
	}
	for _, payload := range bad {
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(payload)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("PUT %s status = %d, want 400", payload, rec.Code)
		}
	}
}

func TestServer_RecipesPassthroughWhenDisabled(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recipe.Recipe{Title: "Fried Rice"})
	}))
	defer backend.Close()

	env := newTestEnv(t, backend.URL)

	body := bytes.NewReader([]byte(`{"ingredients":["rice","egg"]}`))
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("recipes status = %d: %s", rec.Code, rec.Body.String())
	}

	var got recipe.Recipe
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode recipe: %v", err)
	}
	if got.Title != "Fried Rice" {
		t.Errorf("recipe = %+v", got)
	}
}

func TestServer_RecipesValidation(t *testing.T) {
	env := newTestEnv(t, "http://localhost:1") // never reached

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET recipes status = %d, want 405", rec.Code)
	}

	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{"ingredients":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty ingredients status = %d, want 400", rec.Code)
	}
}

func TestServer_RecipesGateRejections(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recipe.Recipe{Title: "should not be reached"})
	}))
	defer backend.Close()

	env := newTestEnv(t, backend.URL)
	env.coordinator.SetEnabled(true)

	// First caller blocks on the challenge.
	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		body := bytes.NewReader([]byte(`{"ingredients":["rice"]}`))
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", body))
		first <- rec
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !env.coordinator.Snapshot().Active {
		time.Sleep(time.Millisecond)
	}
	if !env.coordinator.Snapshot().Active {
		t.Fatal("no challenge became active")
	}

	// Second caller is rejected immediately.
	rec := httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"ingredients":["egg"]}`))
	env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("busy status = %d, want 409", rec.Code)
	}

	// Cancelling resolves the first caller with a conflict as well.
	env.coordinator.Cancel()
	select {
	case rec := <-first:
		if rec.Code != http.StatusConflict {
			t.Errorf("cancelled status = %d, want 409", rec.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first request never resolved after cancel")
	}
}

// Feeding frames through the coordinator while a request is pending
// exercises the full unlock path over HTTP.
func TestServer_RecipesUnlockedByGestures(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recipe.Recipe{Title: "Omelette"})
	}))
	defer backend.Close()

	env := newTestEnv(t, backend.URL)
	env.coordinator.SetEnabled(true)
	env.coordinator.Configure(1, 30*time.Second)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		body := bytes.NewReader([]byte(`{"ingredients":["egg"]}`))
		env.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", body))
		first <- rec
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := env.coordinator.Snapshot(); st.Active && st.State == "running" {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Hold the "six" sign long enough to clear the single-score target.
	six := []detector.HandLandmarks{detector.SixHandLandmarks()}
	now := time.Now()
	for i := 0; i < 3; i++ {
		env.coordinator.Observe(six, now.Add(time.Duration(i)*33*time.Millisecond))
	}

	select {
	case rec := <-first:
		if rec.Code != http.StatusOK {
			t.Fatalf("unlocked status = %d: %s", rec.Code, rec.Body.String())
		}
		var got recipe.Recipe
		json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Title != "Omelette" {
			t.Errorf("recipe = %+v", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("request never resolved after the challenge was cleared")
	}
}
