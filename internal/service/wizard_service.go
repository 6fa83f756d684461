package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/export"
)

type wizardSessionRepository interface {
	Get(ctx context.Context, id string) (*models.WizardSession, error)
	Save(ctx context.Context, session *models.WizardSession) error
	Delete(ctx context.Context, id string) error
}

type documentRenderer interface {
	RenderDocument(title string, sections []export.Section) ([]byte, error)
}

// WizardConfig tunes the Project Builder service.
type WizardConfig struct {
	APIPrefix     string
	InviteBaseURL string
	QRSize        int
}

// WizardService runs Project Builder sessions on top of the wizard state machine.
type WizardService struct {
	repo      wizardSessionRepository
	machine   *wizard.Machine
	pdf       documentRenderer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       WizardConfig
	now       func() time.Time
}

// NewWizardService constructs the service. pdf defaults to the gofpdf exporter.
func NewWizardService(repo wizardSessionRepository, machine *wizard.Machine, pdf documentRenderer, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg WizardConfig) *WizardService {
	if machine == nil {
		machine = wizard.NewMachine("")
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QRSize <= 0 {
		cfg.QRSize = 256
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &WizardService{
		repo:      repo,
		machine:   machine,
		pdf:       pdf,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Catalog returns the guided-step choices.
func (s *WizardService) Catalog() dto.WizardCatalogResponse {
	return dto.WizardCatalogResponse{Interests: wizard.Interests(), Skills: wizard.Skills(), Goals: wizard.Goals()}
}

// Start opens a new session at the entry screen.
func (s *WizardService) Start(ctx context.Context, userID string) (*dto.WizardSessionResponse, error) {
	now := s.now().UTC()
	session := &models.WizardSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		State:     wizard.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	s.logger.Info("wizard session started", zap.String("session_id", session.ID), zap.String("user_id", userID))
	return s.view(session), nil
}

// Get returns a session owned by userID.
func (s *WizardService) Get(ctx context.Context, userID, id string) (*dto.WizardSessionResponse, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Apply runs one event. Exiting the builder ends the session and reports where to go next.
func (s *WizardService) Apply(ctx context.Context, userID, id string, req dto.WizardEventRequest) (*dto.WizardSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid wizard event")
	}
	kind, err := wizard.ParseEventKind(req.Event)
	if err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "unknown wizard event"),
			map[string]interface{}{"event": req.Event})
	}

	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := session.State.Screen
	next, err := s.machine.Transition(session.State, wizard.Event{Kind: kind, Data: req.Data})
	if err != nil {
		return nil, s.transitionError(from, kind, err)
	}
	s.metrics.RecordWizardTransition(string(from), string(kind), "ok")

	session.State = next
	session.UpdatedAt = s.now().UTC()

	if next.Exited() {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete finished wizard session", zap.String("session_id", id), zap.Error(err))
		}
		s.logger.Info("wizard session finished",
			zap.String("session_id", id),
			zap.String("exit", string(next.Exit)),
			zap.Int("steps", next.Steps))
		return s.view(session), nil
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}
	return s.view(session), nil
}

// Restart discards everything entered and returns to the entry screen.
func (s *WizardService) Restart(ctx context.Context, userID, id string) (*dto.WizardSessionResponse, error) {
	return s.Apply(ctx, userID, id, dto.WizardEventRequest{Event: string(wizard.EventRestart)})
}

// Discard deletes a session.
func (s *WizardService) Discard(ctx context.Context, userID, id string) error {
	if _, err := s.load(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

// Proposal renders the current form data as a PDF. The returned name is a download filename.
func (s *WizardService) Proposal(ctx context.Context, userID, id string) ([]byte, string, error) {
	session, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	f := session.State.FormData
	if f.ProjectDescription == nil || f.ProjectDescription.Title == "" {
		return nil, "", appErrors.Clone(appErrors.ErrConflict, "proposal has no project title yet")
	}
	body, err := s.pdf.RenderDocument(f.ProjectDescription.Title, proposalSections(session.State))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render proposal")
	}
	return body, "proposal-" + id[:8] + ".pdf", nil
}

// PeerInvite builds a shareable review link for a specific reviewer.
func (s *WizardService) PeerInvite(ctx context.Context, userID, id string, req dto.PeerInviteRequest) (*dto.PeerInviteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(
			appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reviewer email"),
			map[string]interface{}{"domain": s.machine.EmailDomain()})
	}
	if !s.machine.ValidReviewerEmail(req.Email) {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid reviewer email"),
			map[string]interface{}{"domain": s.machine.EmailDomain()})
	}
	if _, err := s.load(ctx, userID, id); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	qrURL := fmt.Sprintf("%s/wizard/sessions/%s/peer-invite/qr?email=%s",
		strings.TrimRight(s.cfg.APIPrefix, "/"), id, url.QueryEscape(email))
	return &dto.PeerInviteResponse{SessionID: id, URL: s.inviteLink(id, email), QRCodeURL: qrURL}, nil
}

// PeerInviteQR renders the invite link as a PNG QR code.
func (s *WizardService) PeerInviteQR(ctx context.Context, userID, id, email string) ([]byte, error) {
	invite, err := s.PeerInvite(ctx, userID, id, dto.PeerInviteRequest{Email: email})
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(invite.URL, qrcode.Medium, s.cfg.QRSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render QR code")
	}
	return png, nil
}

func (s *WizardService) inviteLink(id, email string) string {
	base := strings.TrimRight(s.cfg.InviteBaseURL, "/")
	return fmt.Sprintf("%s/peer-review/%s?reviewer=%s", base, id, url.QueryEscape(email))
}

func (s *WizardService) load(ctx context.Context, userID, id string) (*models.WizardSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard session not found")
	}
	return session, nil
}

func (s *WizardService) transitionError(from wizard.Screen, kind wizard.EventKind, err error) error {
	var blocked *wizard.BlockedError
	if errors.As(err, &blocked) {
		s.metrics.RecordWizardTransition(string(from), string(kind), "blocked")
		return appErrors.WithDetails(appErrors.Wrap(err, appErrors.ErrWizardBlocked.Code, appErrors.ErrWizardBlocked.Status, blocked.Hint),
			map[string]interface{}{"screen": blocked.Screen, "hint": blocked.Hint})
	}
	var illegal *wizard.TransitionError
	if errors.As(err, &illegal) {
		s.metrics.RecordWizardTransition(string(from), string(kind), "rejected")
		return appErrors.WithDetails(appErrors.Wrap(err, appErrors.ErrInvalidTransition.Code, appErrors.ErrInvalidTransition.Status, appErrors.ErrInvalidTransition.Message),
			map[string]interface{}{"screen": illegal.Screen, "event": illegal.Event, "allowed": illegal.Allowed})
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "wizard transition failed")
}

func (s *WizardService) view(session *models.WizardSession) *dto.WizardSessionResponse {
	st := session.State
	resp := &dto.WizardSessionResponse{ID: session.ID, State: st}
	if st.Exited() {
		resp.Exit = st.Exit
		resp.RedirectPath = navigation.PathForView(st.Exit)
		resp.Allowed = []wizard.EventKind{}
		return resp
	}
	resp.CanAdvance, resp.Hint = s.machine.CanAdvance(st)
	resp.Allowed = wizard.Allowed(st.Screen)
	switch st.Screen {
	case wizard.ScreenAIRecommendations:
		resp.Recommended = wizard.Recommendations(st.FormData.SelectedInterests)
	case wizard.ScreenFinalReview:
		resp.Checklist = s.machine.Checklist(st)
	}
	return resp
}

func proposalSections(st wizard.State) []export.Section {
	f := st.FormData
	var sections []export.Section
	if si := f.StudentInfo; si != nil {
		sections = append(sections, export.Section{Heading: "Student", Lines: nonEmpty(
			labeled("Name", si.Name), labeled("Email", si.Email), labeled("Student ID", si.StudentID),
			labeled("Major", si.Major), labeled("Year", si.Year))})
	}
	if pd := f.ProjectDescription; pd != nil {
		sections = append(sections, export.Section{Heading: "Project", Lines: nonEmpty(
			labeled("Summary", pd.Summary), labeled("Objectives", pd.Objectives),
			labeled("Methodology", pd.Methodology), labeled("Expected outcomes", pd.ExpectedOutcomes))})
	}
	if rq := f.Requirements; rq != nil {
		lines := nonEmpty(labeled("Semester", rq.Semester))
		if rq.Credits > 0 {
			lines = append(lines, "Credits: "+strconv.Itoa(rq.Credits))
		}
		if rq.HoursPerWeek > 0 {
			lines = append(lines, "Hours per week: "+strconv.Itoa(rq.HoursPerWeek))
		}
		for _, d := range rq.Deliverables {
			lines = append(lines, "- "+d)
		}
		sections = append(sections, export.Section{Heading: "Requirements", Lines: lines})
	}
	if fc := f.FacultyContact; fc != nil {
		sections = append(sections, export.Section{Heading: "Faculty sponsor", Lines: nonEmpty(
			labeled("Name", fc.Name), labeled("Email", fc.Email), labeled("Department", fc.Department))})
	}
	if r := st.AIReview; r != nil {
		lines := []string{"Score: " + strconv.Itoa(r.Score)}
		for _, v := range r.Strengths {
			lines = append(lines, "+ "+v)
		}
		for _, v := range r.Suggestions {
			lines = append(lines, "* "+v)
		}
		sections = append(sections, export.Section{Heading: "AI feedback", Lines: lines})
	}
	if len(st.PeerReviews) > 0 {
		lines := make([]string, 0, len(st.PeerReviews))
		for _, pr := range st.PeerReviews {
			lines = append(lines, fmt.Sprintf("%s (%d/5): %s", pr.Reviewer, pr.Rating, pr.Comments))
		}
		sections = append(sections, export.Section{Heading: "Peer reviews", Lines: lines})
	}
	return sections
}

func labeled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

func nonEmpty(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
