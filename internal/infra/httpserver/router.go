package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appauth "github.com/bizsimlab/venture-sim/internal/application/auth"
	appsims "github.com/bizsimlab/venture-sim/internal/application/simulations"
	"github.com/bizsimlab/venture-sim/internal/middleware"

	domain "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
	domusers "github.com/bizsimlab/venture-sim/internal/domain/users"
)

type Router struct {
	sims          *appsims.Service
	auth          *appauth.Service
	secureCookies bool
	log           *zap.Logger
}

// NewRouter wires the API surface. requireAuth is the access-gate middleware;
// everything under it sees an already-resolved owner identity.
func NewRouter(sims *appsims.Service, auth *appauth.Service, requireAuth func(http.Handler) http.Handler, secureCookies bool, log *zap.Logger) http.Handler {
	r := &Router{sims: sims, auth: auth, secureCookies: secureCookies, log: log}
	mux := chi.NewRouter()

	mux.Route("/api", func(rt chi.Router) {
		rt.Route("/auth", func(a chi.Router) {
			a.Post("/register", r.wrap(r.handleRegister))
			a.Post("/login", r.wrap(r.handleLogin))
			a.Post("/logout", r.handleLogout)
			a.With(requireAuth).Get("/me", r.wrap(r.handleMe))
		})

		rt.Group(func(p chi.Router) {
			p.Use(requireAuth)
			p.Post("/simulate", r.wrap(r.handleSimulate))
			p.Get("/scenarios", r.wrap(r.handleScenarios))
			p.Delete("/scenarios/{id}", r.wrap(r.handleDeleteScenario))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap classifies errors into the response envelope. Validation and ownership
// failures are specific; everything else is reported as a generic internal
// failure without leaking detail.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, appauth.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, appauth.ErrUserNotRegistered):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, appauth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			r.log.Error("request failed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
		}
	}
}

// budgetValue accepts both a JSON number and a numeric string, mirroring the
// coerce-at-creation contract for budgets.
type budgetValue struct {
	val *float64
}

func (b *budgetValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("budget must be a number")
	}
	b.val = &f
	return nil
}

// POST /api/simulate
func (r *Router) handleSimulate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Title       string      `json:"title"`
		Budget      budgetValue `json:"budget"`
		Location    string      `json:"location"`
		Timeline    string      `json:"timeline"`
		Description string      `json:"description"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.NewValidationError("invalid request body: " + err.Error())
	}

	result, err := r.sims.Submit(req.Context(), middleware.UserIDFromContext(req.Context()), appsims.SubmitCommand{
		Title:       body.Title,
		Budget:      body.Budget.val,
		Location:    body.Location,
		Timeline:    body.Timeline,
		Description: body.Description,
	})
	if err != nil {
		return err
	}

	middleware.IncrementSimulations()
	return writeData(w, http.StatusOK, result)
}

// GET /api/scenarios
func (r *Router) handleScenarios(w http.ResponseWriter, req *http.Request) error {
	list, err := r.sims.List(req.Context(), middleware.UserIDFromContext(req.Context()))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Scenario{}
	}
	return writeData(w, http.StatusOK, list)
}

// DELETE /api/scenarios/{id}
func (r *Router) handleDeleteScenario(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.sims.Delete(req.Context(), middleware.UserIDFromContext(req.Context()), domain.ScenarioID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Scenario deleted successfully",
	})
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body credentialsBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.NewValidationError("invalid request body: " + err.Error())
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		return domain.NewValidationError("email and password are required")
	}

	user, token, err := r.auth.Register(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}

	r.setSessionCookie(w, token)
	return writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Registration successful",
		"user":    publicUser(user),
	})
}

// POST /api/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body credentialsBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.NewValidationError("invalid request body: " + err.Error())
	}

	user, token, err := r.auth.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}

	r.setSessionCookie(w, token)
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    publicUser(user),
	})
}

// POST /api/auth/logout
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GET /api/auth/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	id := middleware.UserIDFromContext(req.Context())
	user, err := r.auth.Me(req.Context(), domusers.UserID(id))
	if err != nil {
		return err
	}
	return writeData(w, http.StatusOK, publicUser(user))
}

func (r *Router) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(r.auth.TokenTTL().Seconds()),
	})
}

func publicUser(u *domusers.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"email": u.Email,
	}
}

func writeData(w http.ResponseWriter, status int, data any) error {
	return writeJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
