package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
)

func newWizardHandler() *WizardHandler {
	repo := repository.NewWizardSessionRepository(repository.NewMemorySlotStore(), time.Hour)
	svc := service.NewWizardService(repo, nil, nil, nil, nil, nil, service.WizardConfig{APIPrefix: "/api/v1", InviteBaseURL: "https://l2l.example.edu"})
	return NewWizardHandler(svc)
}

func startSession(t *testing.T, h *WizardHandler) string {
	t.Helper()
	c, w := newGinContext(http.MethodPost, "/wizard/sessions", nil)
	asUser(c, "student-demo", models.RoleStudent)
	h.Start(c)
	require.Equal(t, http.StatusCreated, w.Code)
	var session dto.WizardSessionResponse
	decode(t, w, &session)
	assert.Equal(t, wizard.ScreenEntry, session.State.Screen)
	return session.ID
}

func sendEvent(t *testing.T, h *WizardHandler, id string, req dto.WizardEventRequest) (int, responseEnvelope) {
	t.Helper()
	c, w := newGinContext(http.MethodPost, "/wizard/sessions/"+id+"/events", mustJSON(t, req))
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.Event(c)
	return w.Code, decode(t, w, nil)
}

func TestWizardHandlerGuardedSubmitIsBlocked(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	code, _ := sendEvent(t, h, id, dto.WizardEventRequest{Event: string(wizard.EventChooseGuided)})
	require.Equal(t, http.StatusOK, code)

	code, env := sendEvent(t, h, id, dto.WizardEventRequest{Event: string(wizard.EventSubmit)})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "WIZARD_BLOCKED", env.Error["code"])
}

func TestWizardHandlerIllegalEvent(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	code, env := sendEvent(t, h, id, dto.WizardEventRequest{Event: string(wizard.EventFinalize)})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error["code"])
}

func TestWizardHandlerExitRedirects(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	c, w := newGinContext(http.MethodPost, "/wizard/sessions/"+id+"/events", mustJSON(t, dto.WizardEventRequest{Event: string(wizard.EventExit)}))
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.Event(c)
	require.Equal(t, http.StatusOK, w.Code)
	var session dto.WizardSessionResponse
	decode(t, w, &session)
	assert.Equal(t, navigation.ViewDashboard, session.Exit)
	assert.Equal(t, "/dashboard", session.RedirectPath)
}

func TestWizardHandlerOtherUserCannotRead(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	c, w := newGinContext(http.MethodGet, "/wizard/sessions/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "someone-else", models.RoleStudent)
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardHandlerProposalPDF(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)
	code, _ := sendEvent(t, h, id, dto.WizardEventRequest{Event: string(wizard.EventChooseDirect)})
	require.Equal(t, http.StatusOK, code)
	code, _ = sendEvent(t, h, id, dto.WizardEventRequest{Event: string(wizard.EventSubmit), Data: wizard.FormData{
		StudentInfo:        &wizard.StudentInfo{Name: "Jordan Lee", Email: "jlee@umass.edu"},
		ProjectDescription: &wizard.ProjectDescription{Title: "Campus Energy", Summary: "Measure building energy use."},
	}})
	require.Equal(t, http.StatusOK, code)

	c, w := newGinContext(http.MethodGet, "/wizard/sessions/"+id+"/proposal", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.Proposal(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "proposal-")
}

func TestWizardHandlerPeerInviteAndQR(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	c, w := newGinContext(http.MethodPost, "/wizard/sessions/"+id+"/peer-invite", mustJSON(t, dto.PeerInviteRequest{Email: "peer@umass.edu"}))
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.PeerInvite(c)
	require.Equal(t, http.StatusOK, w.Code)
	var invite dto.PeerInviteResponse
	decode(t, w, &invite)
	assert.True(t, strings.HasPrefix(invite.URL, "https://l2l.example.edu/peer-review/"+id))
	assert.True(t, strings.HasPrefix(invite.QRCodeURL, "/api/v1/wizard/sessions/"+id+"/peer-invite/qr"))

	c, w = newGinContext(http.MethodGet, "/wizard/sessions/"+id+"/peer-invite/qr?email=peer@umass.edu", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.PeerInviteQR(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestWizardHandlerPeerInviteRejectsForeignDomain(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	c, w := newGinContext(http.MethodPost, "/wizard/sessions/"+id+"/peer-invite", mustJSON(t, dto.PeerInviteRequest{Email: "peer@gmail.com"}))
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.PeerInvite(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWizardHandlerDiscard(t *testing.T) {
	h := newWizardHandler()
	id := startSession(t, h)

	c, w := newGinContext(http.MethodDelete, "/wizard/sessions/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.Discard(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	c, w = newGinContext(http.MethodGet, "/wizard/sessions/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	asUser(c, "student-demo", models.RoleStudent)
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
