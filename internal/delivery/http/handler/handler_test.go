package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	v1 "skill-bridge/internal/delivery/http/routes/v1"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/pkg/jwt"
	ucauth "skill-bridge/internal/usecase/auth"
	ucsession "skill-bridge/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type recorder struct {
	auth      []string
	redirects []string
	served    []int
}

func (r *recorder) AuthAttempt(kind, outcome string) { r.auth = append(r.auth, kind+":"+outcome) }
func (r *recorder) Redirect(view, redirect string)   { r.redirects = append(r.redirects, view+"->"+redirect) }
func (r *recorder) RecommendationsServed(n int)      { r.served = append(r.served, n) }

func newTestApp(t *testing.T) (*fiber.App, *recorder) {
	t.Helper()

	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	tokens := jwt.NewHMACService("test-secret", time.Hour)
	sessions := ucsession.NewService(cache.NewMemory(), cat, time.Hour, nil)
	auth := ucauth.NewService(sessions, tokens, ucauth.Options{LoginDelay: time.Millisecond, SignupDelay: time.Millisecond}, nil)
	rec := &recorder{}

	authMw := middleware.NewAuthMiddleware(tokens)
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	v1.Register(app.Group("/api/v1"), v1.Handlers{
		Auth:        handler.NewAuthHandler(auth, authMw.Middleware(), authMw.Optional(), rec),
		Catalog:     handler.NewCatalogHandler(cat),
		Session:     handler.NewSessionHandler(sessions, rec),
		SessionAuth: authMw.Optional(),
	})
	return app, rec
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "x"})
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	require.Equal(t, "1", data.User.ID)
	require.Equal(t, "ada", data.User.Name)
	return data.Token
}

type redirectData struct {
	Redirect string `json:"redirect"`
	Path     string `json:"path"`
	Notice   struct {
		Title string `json:"title"`
	} `json:"notice"`
}

func requireRedirect(t *testing.T, status int, env envelope, to, title string) {
	t.Helper()
	require.Equal(t, http.StatusConflict, status)
	var d redirectData
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, to, d.Redirect)
	assert.Equal(t, title, d.Notice.Title)
	assert.Equal(t, title, env.Message)
}

func TestAuth_LoginRejectsEmptyFields(t *testing.T) {
	app, rec := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", env.Message)
	assert.Equal(t, []string{"login:rejected"}, rec.auth)
}

func TestAuth_Signup(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "x"})
	require.Equal(t, http.StatusCreated, status)
	var data struct {
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Ada", data.User.Name)
	assert.NotEqual(t, "1", data.User.ID)
}

func TestAuth_LogoutNeedsToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := do(t, app, http.MethodPost, "/api/v1/auth/logout", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestAuth_StatusFollowsSession(t *testing.T) {
	app, _ := newTestApp(t)

	authStatus := func(token string) string {
		t.Helper()
		code, env := do(t, app, http.MethodGet, "/api/v1/auth/status", token, nil)
		require.Equal(t, http.StatusOK, code)
		var data struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		return data.Status
	}

	assert.Equal(t, "unauthenticated", authStatus(""))
	token := login(t, app)
	assert.Equal(t, "authenticated", authStatus(token))

	code, _ := do(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unauthenticated", authStatus(token))
}

func TestCatalog(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/catalog/jobs?q=CLOUD", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Items []struct {
			ID   string `json:"id"`
			Icon string `json:"icon"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.NotEmpty(t, list.Items)
	assert.Equal(t, "cloud-architect", list.Items[0].ID)
	assert.Equal(t, "cloud", list.Items[0].Icon)

	status, env = do(t, app, http.MethodGet, "/api/v1/catalog/jobs?q=zzz", "", nil)
	require.Equal(t, http.StatusOK, status)
	var empty struct {
		Total        int    `json:"total"`
		EmptyMessage string `json:"empty_message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &empty))
	assert.Zero(t, empty.Total)
	assert.Equal(t, "No job roles match your search criteria", empty.EmptyMessage)

	status, _ = do(t, app, http.MethodGet, "/api/v1/catalog/jobs/astronaut", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/catalog/courses", "", nil)
	require.Equal(t, http.StatusOK, status)
	var courses struct {
		Items []struct {
			Stars []string `json:"stars"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.NotEmpty(t, courses.Items)
	for _, c := range courses.Items {
		assert.Len(t, c.Stars, 5)
	}
}

func TestSession_AnonymousIsRedirectedHome(t *testing.T) {
	app, rec := newTestApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/session/dashboard", "", nil)
	requireRedirect(t, status, env, "home", "Not signed in")
	assert.Equal(t, []string{"dashboard->home"}, rec.redirects)
}

func TestSession_Flow(t *testing.T) {
	app, rec := newTestApp(t)
	token := login(t, app)

	status, env := do(t, app, http.MethodGet, "/api/v1/session/gap-analysis", token, nil)
	requireRedirect(t, status, env, "job_selection", "No job selected")

	status, _ = do(t, app, http.MethodPut, "/api/v1/session/job", token, map[string]string{"job_id": "astronaut"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPut, "/api/v1/session/job", token, map[string]string{"job_id": "cloud-architect"})
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/session/recommendations", token, nil)
	requireRedirect(t, status, env, "skills_assessment", "No skills data")

	status, env = do(t, app, http.MethodGet, "/api/v1/session/assessment", token, nil)
	require.Equal(t, http.StatusOK, status)
	var assessment struct {
		Groups []struct {
			Category string `json:"category"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &assessment))
	require.NotEmpty(t, assessment.Groups)
	assert.Equal(t, "Cloud", assessment.Groups[0].Category)

	status, env = do(t, app, http.MethodPut, "/api/v1/session/skills", token, map[string][]string{"skills": {}})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "No skills selected", env.Message)

	status, _ = do(t, app, http.MethodPut, "/api/v1/session/skills", token, map[string][]string{"skills": {"python"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodPut, "/api/v1/session/skills", token, map[string][]string{"skills": {"aws", "azure", "security"}})
	require.Equal(t, http.StatusOK, status)
	var analysis struct {
		MatchPercentage int             `json:"match_percentage"`
		GapPercentage   int             `json:"gap_percentage"`
		SkillGaps       map[string]bool `json:"skill_gaps"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &analysis))
	assert.Equal(t, 30, analysis.MatchPercentage)
	assert.Equal(t, 70, analysis.GapPercentage)
	assert.Len(t, analysis.SkillGaps, 10)

	status, _ = do(t, app, http.MethodGet, "/api/v1/session/recommendations?level=expert", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/session/recommendations?level=Intermediate&sort=rating", token, nil)
	require.Equal(t, http.StatusOK, status)
	var recs struct {
		Level   string `json:"level"`
		Sort    string `json:"sort"`
		Courses []struct {
			ID    string `json:"id"`
			Level string `json:"level"`
		} `json:"courses"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &recs))
	assert.Equal(t, "intermediate", recs.Level)
	assert.Equal(t, "rating", recs.Sort)
	assert.Equal(t, len(recs.Courses), recs.Total)
	for _, c := range recs.Courses {
		assert.Equal(t, "Intermediate", c.Level)
	}
	assert.Equal(t, []int{recs.Total}, rec.served)

	status, _ = do(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, app, http.MethodGet, "/api/v1/session/dashboard", token, nil)
	requireRedirect(t, status, env, "home", "Not signed in")
	assert.Contains(t, rec.auth, "logout:success")
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	app := fiber.New()
	handler.NewHealthHandler(map[string]handler.Pinger{
		"session_store": pinger{},
		"database":      pinger{err: errors.New("down")},
	}).RegisterRoutes(app)

	status, env := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	var deps map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &deps))
	assert.Equal(t, map[string]string{"session_store": "up", "database": "down"}, deps)
}
