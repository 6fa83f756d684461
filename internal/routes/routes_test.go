package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/handler"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users, err := repository.DemoUsers("demo-pass")
	require.NoError(t, err)
	auth := service.NewAuthService(repository.NewMemoryUserRepository(users...), nil, nil, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "l2l-test",
	})

	store := repository.NewMemorySlotStore()
	metrics := service.NewMetricsService()
	milestones := service.NewMilestoneService(repository.NewMilestoneRepository(store, ""), nil, nil, metrics, nil)
	catalog, err := directory.DefaultCatalog()
	require.NoError(t, err)
	bookmarks := repository.NewSlotBookmarkStore(store, 0)
	mentors := service.NewMentorService(catalog, bookmarks, nil, time.Minute, nil, nil)
	wizards := service.NewWizardService(repository.NewWizardSessionRepository(store, time.Hour), nil, nil, nil, metrics, nil, service.WizardConfig{})

	r := gin.New()
	Setup(r, Handlers{
		Auth:       handler.NewAuthHandler(auth),
		Navigation: handler.NewNavigationHandler(),
		Mentor:     handler.NewMentorHandler(mentors),
		Milestone:  handler.NewMilestoneHandler(milestones),
		Wizard:     handler.NewWizardHandler(wizards),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(milestones, bookmarks, nil)),
		Metrics:    handler.NewMetricsHandler(metrics, nil),
	}, Options{APIPrefix: "/api/v1", Tokens: auth, Metrics: metrics})
	return r
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w, env := call(t, r, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: email, Password: "demo-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.AccessToken
}

func TestSubmitThenReviewAcrossRoles(t *testing.T) {
	r := newServer(t)
	student := login(t, r, "student@umass.edu")
	mentor := login(t, r, "mentor@umass.edu")

	w, _ := call(t, r, http.MethodPost, "/api/v1/milestones/2/submit", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = call(t, r, http.MethodPost, "/api/v1/milestones/2/review", student, map[string]string{"decision": "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := call(t, r, http.MethodPost, "/api/v1/milestones/2/review", mentor, map[string]string{"decision": "approve"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reviewed models.Milestone
	require.NoError(t, json.Unmarshal(env.Data, &reviewed))
	assert.Equal(t, models.MilestoneCompleted, reviewed.Status)
	assert.Equal(t, "Dr. Sarah Chen", reviewed.Reviewer)

	w, env = call(t, r, http.MethodGet, "/api/v1/milestones", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Milestone
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, models.MilestoneCompleted, list[1].Status)
}

func TestStudentPatchCannotSetReviewStatuses(t *testing.T) {
	r := newServer(t)
	student := login(t, r, "student@umass.edu")

	for _, status := range []string{"Completed", "Pending Review", "Denied"} {
		w, _ := call(t, r, http.MethodPatch, "/api/v1/milestones/4", student, map[string]string{"status": status})
		assert.Equal(t, http.StatusBadRequest, w.Code, status)
	}

	w, _ := call(t, r, http.MethodPatch, "/api/v1/milestones/3", student, map[string]string{"status": "In Progress"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := call(t, r, http.MethodPatch, "/api/v1/milestones/4", student, map[string]string{"status": "In Progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Milestone
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.MilestoneInProgress, updated.Status)
	assert.Empty(t, updated.Reviewer)
}

func TestMilestonesRequireToken(t *testing.T) {
	r := newServer(t)
	w, env := call(t, r, http.MethodGet, "/api/v1/milestones", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotNil(t, env.Error)
}

func TestResetIsAdminOnly(t *testing.T) {
	r := newServer(t)
	mentor := login(t, r, "mentor@umass.edu")
	admin := login(t, r, "admin@umass.edu")

	w, _ := call(t, r, http.MethodPost, "/api/v1/milestones/reset", mentor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/v1/milestones/reset", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaticRoutesBeatParams(t *testing.T) {
	r := newServer(t)
	mentor := login(t, r, "mentor@umass.edu")

	w, env := call(t, r, http.MethodGet, "/api/v1/milestones/pending", mentor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []models.Milestone
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].ID)

	w, _ = call(t, r, http.MethodGet, "/api/v1/mentors/departments", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicMentorBrowsing(t *testing.T) {
	r := newServer(t)
	w, _ := call(t, r, http.MethodGet, "/api/v1/mentors?sort=experience", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, r, http.MethodPost, "/api/v1/mentors/1/bookmark", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWizardIsStudentOnly(t *testing.T) {
	r := newServer(t)
	mentor := login(t, r, "mentor@umass.edu")
	student := login(t, r, "student@umass.edu")

	w, _ := call(t, r, http.MethodPost, "/api/v1/wizard/sessions", mentor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/v1/wizard/sessions", student, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	r := newServer(t)
	w, _ := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodGet, "/api/v1/navigation/resolve?path=/project-builder", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
