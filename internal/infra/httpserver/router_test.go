package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizsimlab/venture-sim/internal/application"
	appauth "github.com/bizsimlab/venture-sim/internal/application/auth"
	appsims "github.com/bizsimlab/venture-sim/internal/application/simulations"
	"github.com/bizsimlab/venture-sim/internal/middleware"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
	domusers "github.com/bizsimlab/venture-sim/internal/domain/users"
)

type memScenarioRepo struct {
	items []*domain.Scenario
}

func (m *memScenarioRepo) Create(_ context.Context, s *domain.Scenario) error {
	cp := *s
	m.items = append(m.items, &cp)
	return nil
}

func (m *memScenarioRepo) Update(_ context.Context, s *domain.Scenario) error {
	for i, it := range m.items {
		if it.ID == s.ID && it.UserID == s.UserID {
			cp := *s
			m.items[i] = &cp
		}
	}
	return nil
}

func (m *memScenarioRepo) FindAllByOwner(_ context.Context, ownerID string) ([]*domain.Scenario, error) {
	var out []*domain.Scenario
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID == ownerID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memScenarioRepo) FindOneByOwnerAndID(_ context.Context, ownerID string, id domain.ScenarioID) (*domain.Scenario, error) {
	for _, it := range m.items {
		if it.UserID == ownerID && it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

func (m *memScenarioRepo) Delete(_ context.Context, ownerID string, id domain.ScenarioID) error {
	for i, it := range m.items {
		if it.UserID == ownerID && it.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type memUserRepo struct {
	users []*domusers.User
}

func (m *memUserRepo) Create(_ context.Context, u *domusers.User) error {
	m.users = append(m.users, u)
	return nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*domusers.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id domusers.UserID) (*domusers.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type cannedSimulator struct{}

func (cannedSimulator) Simulate(_ context.Context, _ *domain.Scenario) *domain.SimulationResult {
	return &domain.SimulationResult{
		Recommendations: "canned",
		MarketAnalysis:  domain.MarketAnalysis{MarketSize: "medium", CompetitionLevel: "medium", GrowthPotential: "moderate"},
		Risks:           []domain.Risk{{Category: "General", Severity: "low", Description: "none"}},
	}
}

type testEnv struct {
	handler      http.Handler
	scenarioRepo *memScenarioRepo
	userRepo     *memUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	secret := []byte("router-secret")
	scenarioRepo := &memScenarioRepo{}
	userRepo := &memUserRepo{}

	simsSvc := &appsims.Service{
		Repo:  scenarioRepo,
		AI:    cannedSimulator{},
		Clock: application.SystemClock{},
		Log:   zap.NewNop(),
	}
	authSvc := &appauth.Service{
		Repo:   userRepo,
		Secret: secret,
		Clock:  application.SystemClock{},
	}
	handler := NewRouter(simsSvc, authSvc, middleware.JWTAuth(secret, userRepo), false, zap.NewNop())
	return &testEnv{handler: handler, scenarioRepo: scenarioRepo, userRepo: userRepo}
}

// register registers a user through the API and returns the session cookie.
func (e *testEnv) register(t *testing.T, email string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": "hunter22"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (e *testEnv) do(method, path string, body []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func submitBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"title":       "Bike courier service",
		"budget":      "15000", // numeric string, the API coerces it
		"location":    "Berlin",
		"timeline":    "2 months",
		"description": "Last-mile delivery by cargo bike",
	})
	require.NoError(t, err)
	return b
}

func TestSimulateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/simulate", submitBody(t), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSimulateHappyPath(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "a@example.com")

	rec := env.do(http.MethodPost, "/api/simulate", submitBody(t), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Scenario   *domain.Scenario         `json:"scenario"`
			Simulation *domain.SimulationResult `json:"simulation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.Scenario)
	require.NotNil(t, resp.Data.Simulation)
	assert.Equal(t, 15000.0, resp.Data.Scenario.Budget)
	assert.Equal(t, "canned", resp.Data.Simulation.Recommendations)
	require.NotNil(t, resp.Data.Scenario.Simulation, "simulation must also be nested in the scenario")
}

func TestSimulateValidationError(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "a@example.com")

	body, _ := json.Marshal(map[string]any{"title": "No budget", "location": "Berlin", "timeline": "2 months", "description": "d"})
	rec := env.do(http.MethodPost, "/api/simulate", body, cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required fields")
	assert.Empty(t, env.scenarioRepo.items, "nothing may be persisted on validation failure")
}

func TestScenarioListIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/simulate", submitBody(t), alice).Code)

	rec := env.do(http.MethodGet, "/api/scenarios", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    []*domain.Scenario `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestDeleteForeignScenarioLooksLikeMissing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com")
	bob := env.register(t, "bob@example.com")

	rec := env.do(http.MethodPost, "/api/simulate", submitBody(t), alice)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.scenarioRepo.items, 1)
	id := string(env.scenarioRepo.items[0].ID)

	foreign := env.do(http.MethodDelete, "/api/scenarios/"+id, nil, bob)
	missing := env.do(http.MethodDelete, "/api/scenarios/does-not-exist", nil, bob)

	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, missing.Body.String(), foreign.Body.String(),
		"foreign and missing records must be indistinguishable")
	require.Len(t, env.scenarioRepo.items, 1, "record must survive")

	owned := env.do(http.MethodDelete, "/api/scenarios/"+id, nil, alice)
	assert.Equal(t, http.StatusOK, owned.Code)
	assert.Empty(t, env.scenarioRepo.items)
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@example.com")

	body, _ := json.Marshal(map[string]string{"email": "a@example.com", "password": "hunter22"})
	rec := env.do(http.MethodPost, "/api/auth/login", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Greater(t, cookie.MaxAge, int((29 * 24 * time.Hour).Seconds()))

	me := env.do(http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "a@example.com")
}

func TestLoginFailureStatusCodes(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@example.com")

	unknown, _ := json.Marshal(map[string]string{"email": "x@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/auth/login", unknown, nil).Code)

	wrongPass, _ := json.Marshal(map[string]string{"email": "a@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/auth/login", wrongPass, nil).Code)

	dup, _ := json.Marshal(map[string]string{"email": "a@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/auth/register", dup, nil).Code)
}
