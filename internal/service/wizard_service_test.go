package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
)

func newWizardFixture() (*WizardService, *MetricsService) {
	repo := repository.NewWizardSessionRepository(repository.NewMemorySlotStore(), time.Hour)
	metrics := NewMetricsService()
	svc := NewWizardService(repo, nil, nil, nil, metrics, nil, WizardConfig{InviteBaseURL: "https://l2l.example.edu", QRSize: 128})
	return svc, metrics
}

func proposalData() wizard.FormData {
	return wizard.FormData{
		StudentInfo:        &wizard.StudentInfo{Name: "Jordan Lee", Email: "jlee@umass.edu"},
		ProjectDescription: &wizard.ProjectDescription{Title: "Campus Energy", Summary: "Measure building energy use."},
		Requirements:       &wizard.Requirements{Credits: 3, Deliverables: []string{"Dashboard"}},
	}
}

func step(t *testing.T, svc *WizardService, user, id string, event string, data wizard.FormData) *dto.WizardSessionResponse {
	t.Helper()
	resp, err := svc.Apply(context.Background(), user, id, dto.WizardEventRequest{Event: event, Data: data})
	require.NoError(t, err, "event %s", event)
	return resp
}

func TestWizardDirectPathEndsSession(t *testing.T) {
	svc, metrics := newWizardFixture()
	ctx := context.Background()

	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, wizard.ScreenEntry, started.State.Screen)
	assert.ElementsMatch(t, wizard.Allowed(wizard.ScreenEntry), started.Allowed)
	id := started.ID

	step(t, svc, "u1", id, "choose-direct", wizard.FormData{})
	resp := step(t, svc, "u1", id, "submit", proposalData())
	require.Equal(t, wizard.ScreenAIReview, resp.State.Screen)
	require.NotNil(t, resp.State.AIReview)

	step(t, svc, "u1", id, "next", wizard.FormData{})
	resp = step(t, svc, "u1", id, "skip", wizard.FormData{})
	require.Equal(t, wizard.ScreenFinalReview, resp.State.Screen)
	assert.Len(t, resp.Checklist, 4)
	assert.True(t, resp.CanAdvance, resp.Hint)

	resp = step(t, svc, "u1", id, "complete", wizard.FormData{})
	assert.Equal(t, navigation.ViewMentorship, resp.Exit)
	assert.Equal(t, "/mentors", resp.RedirectPath)
	assert.NotNil(t, resp.Allowed)
	assert.Empty(t, resp.Allowed)

	_, err = svc.Get(ctx, "u1", id)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, uint64(5), metrics.Snapshot().WizardTransitions)
}

func TestWizardBlockedEventReturnsHint(t *testing.T) {
	svc, _ := newWizardFixture()
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	step(t, svc, "u1", started.ID, "choose-guided", wizard.FormData{})
	_, err = svc.Apply(ctx, "u1", started.ID, dto.WizardEventRequest{Event: "submit"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrWizardBlocked.Code, appErr.Code)
	assert.Equal(t, 422, appErr.Status)
	assert.NotEmpty(t, appErr.Details["hint"])

	current, err := svc.Get(ctx, "u1", started.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.ScreenGuidedStep1, current.State.Screen)
	assert.False(t, current.CanAdvance)
}

func TestWizardIllegalEventConflicts(t *testing.T) {
	svc, _ := newWizardFixture()
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, "u1", started.ID, dto.WizardEventRequest{Event: "finalize"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	_, err = svc.Apply(ctx, "u1", started.ID, dto.WizardEventRequest{Event: "teleport"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Apply(ctx, "u1", started.ID, dto.WizardEventRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestWizardEntryExitToDashboard(t *testing.T) {
	svc, _ := newWizardFixture()
	started, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	resp := step(t, svc, "u1", started.ID, "exit", wizard.FormData{})
	assert.Equal(t, navigation.ViewDashboard, resp.Exit)
	assert.Equal(t, "/dashboard", resp.RedirectPath)
}

func TestWizardSessionsAreOwned(t *testing.T) {
	svc, _ := newWizardFixture()
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "u2", started.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.Discard(ctx, "u2", started.ID), appErrors.ErrNotFound))

	require.NoError(t, svc.Discard(ctx, "u1", started.ID))
	_, err = svc.Get(ctx, "u1", started.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestWizardRestartDiscardsFormData(t *testing.T) {
	svc, _ := newWizardFixture()
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)
	step(t, svc, "u1", started.ID, "choose-direct", wizard.FormData{})
	step(t, svc, "u1", started.ID, "submit", proposalData())

	back := step(t, svc, "u1", started.ID, "back-to-start", wizard.FormData{})
	assert.Equal(t, wizard.ScreenEntry, back.State.Screen)
	assert.NotNil(t, back.State.FormData.ProjectDescription)

	restarted, err := svc.Restart(ctx, "u1", started.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.FormData{}, restarted.State.FormData)
}

func TestWizardRecommendationsOnScreen(t *testing.T) {
	svc, _ := newWizardFixture()
	started, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)
	id := started.ID
	elaboration := "I want to publish a public dataset."

	step(t, svc, "u1", id, "choose-guided", wizard.FormData{})
	step(t, svc, "u1", id, "submit", wizard.FormData{SelectedInterests: []string{"Public Health"}})
	step(t, svc, "u1", id, "submit", wizard.FormData{SelectedSkills: []string{"Statistics"}})
	resp := step(t, svc, "u1", id, "submit", wizard.FormData{SelectedGoals: []string{"Publish research"}, GoalElaboration: &elaboration})

	require.Equal(t, wizard.ScreenAIRecommendations, resp.State.Screen)
	assert.Equal(t, wizard.Recommendations([]string{"Public Health"}), resp.Recommended)
}

func TestWizardProposalPDF(t *testing.T) {
	svc, _ := newWizardFixture()
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	_, _, err = svc.Proposal(ctx, "u1", started.ID)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	step(t, svc, "u1", started.ID, "choose-direct", wizard.FormData{})
	step(t, svc, "u1", started.ID, "submit", proposalData())

	body, name, err := svc.Proposal(ctx, "u1", started.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	assert.Equal(t, "proposal-"+started.ID[:8]+".pdf", name)
}

func TestWizardPeerInvite(t *testing.T) {
	svc, _ := newWizardFixture()
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.PeerInvite(ctx, "u1", started.ID, dto.PeerInviteRequest{Email: "pat@gmail.com"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, wizard.DefaultEmailDomain, appErr.Details["domain"])

	invite, err := svc.PeerInvite(ctx, "u1", started.ID, dto.PeerInviteRequest{Email: "Pat@UMass.edu"})
	require.NoError(t, err)
	assert.Equal(t, "https://l2l.example.edu/peer-review/"+started.ID+"?reviewer=pat%40umass.edu", invite.URL)
	assert.Contains(t, invite.QRCodeURL, "/api/v1/wizard/sessions/"+started.ID+"/peer-invite/qr")

	png, err := svc.PeerInviteQR(ctx, "u1", started.ID, "pat@umass.edu")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestWizardPeerInviteFollowsConfiguredDomain(t *testing.T) {
	repo := repository.NewWizardSessionRepository(repository.NewMemorySlotStore(), time.Hour)
	machine := wizard.NewMachine("example.edu")
	svc := NewWizardService(repo, machine, nil, nil, NewMetricsService(), nil,
		WizardConfig{InviteBaseURL: "http://localhost:5173/project-builder"})
	ctx := context.Background()
	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	ok, _ := machine.CanAdvance(wizard.State{
		Screen:   wizard.ScreenPeerReviewOptions,
		FormData: wizard.FormData{PeerReview: &wizard.PeerReviewRequest{Option: wizard.PeerReviewSpecific, Email: "kim@example.edu"}},
	})
	require.True(t, ok)

	invite, err := svc.PeerInvite(ctx, "u1", started.ID, dto.PeerInviteRequest{Email: "kim@example.edu"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/project-builder/peer-review/"+started.ID+"?reviewer=kim%40example.edu", invite.URL)

	for _, email := range []string{"kim@umass.edu", "a b@example.edu"} {
		_, err = svc.PeerInvite(ctx, "u1", started.ID, dto.PeerInviteRequest{Email: email})
		appErr := appErrors.FromError(err)
		require.NotNil(t, appErr, email)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, email)
		assert.Equal(t, "@example.edu", appErr.Details["domain"], email)
	}
}
