// Package wizard implements the Project Builder: a fixed table of screens, the guards
// that hold a student on a screen until its inputs are complete, and the scripted
// recommendation and review content shown along the way.
package wizard

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
)

// DefaultEmailDomain is the domain a specific peer reviewer's email must contain.
const DefaultEmailDomain = "@umass.edu"

// MinElaborationLength is the minimum length, in characters, of the goal elaboration.
const MinElaborationLength = 20

// ErrIllegalEvent is wrapped by every TransitionError.
var ErrIllegalEvent = errors.New("event not accepted on this screen")

// TransitionError reports an event the current screen does not accept.
type TransitionError struct {
	Screen  Screen
	Event   EventKind
	Allowed []EventKind
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %q on %q", ErrIllegalEvent, e.Event, e.Screen)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalEvent }

// BlockedError reports a forward event whose screen requirements are not met. The
// state is left untouched.
type BlockedError struct {
	Screen Screen
	Hint   string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("screen %q blocked: %s", e.Screen, e.Hint)
}

// PeerReviewStatus tracks the peer review step.
type PeerReviewStatus string

const (
	PeerReviewNone     PeerReviewStatus = "none"
	PeerReviewReceived PeerReviewStatus = "received"
	PeerReviewSkipped  PeerReviewStatus = "skipped"
)

// State is the full builder state for one student session.
type State struct {
	Screen           Screen           `json:"screen"`
	FormData         FormData         `json:"formData"`
	IsGuided         bool             `json:"isGuided"`
	AIReviewed       bool             `json:"aiReviewed"`
	AIReview         *AIReview        `json:"aiReview,omitempty"`
	PeerReviewStatus PeerReviewStatus `json:"peerReviewStatus"`
	PeerReviews      []PeerReview     `json:"peerReviews,omitempty"`
	Exit             navigation.View  `json:"exit,omitempty"`
	Steps            int              `json:"steps"`
}

// NewState is the empty state at the entry screen.
func NewState() State {
	return State{Screen: ScreenEntry, PeerReviewStatus: PeerReviewNone}
}

// Exited reports whether the student has left the builder.
func (s State) Exited() bool {
	return s.Exit != ""
}

func (s State) clone() State {
	out := s
	out.FormData = s.FormData.Clone()
	if s.AIReview != nil {
		r := *s.AIReview
		r.Strengths = cloneStrings(r.Strengths)
		r.Suggestions = cloneStrings(r.Suggestions)
		out.AIReview = &r
	}
	if s.PeerReviews != nil {
		out.PeerReviews = append([]PeerReview(nil), s.PeerReviews...)
	}
	return out
}

// Event is a user action, with the fields submitted on the screen if any.
type Event struct {
	Kind EventKind `json:"event"`
	Data FormData  `json:"data"`
}

// ChecklistItem is one readiness condition on the final review screen.
type ChecklistItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Machine evaluates transitions. It holds no per-session state and is safe for
// concurrent use.
type Machine struct {
	emailDomain string
}

// NewMachine builds a Machine. An empty domain uses DefaultEmailDomain; a domain given
// without the leading @ gets one.
func NewMachine(emailDomain string) *Machine {
	emailDomain = strings.ToLower(strings.TrimSpace(emailDomain))
	switch {
	case emailDomain == "":
		emailDomain = DefaultEmailDomain
	case !strings.HasPrefix(emailDomain, "@"):
		emailDomain = "@" + emailDomain
	}
	return &Machine{emailDomain: emailDomain}
}

// EmailDomain returns the required peer reviewer domain.
func (m *Machine) EmailDomain() string {
	return m.emailDomain
}

// Transition applies ev to s and returns the next state. s itself is never modified.
// Illegal events return a *TransitionError and blocked ones a *BlockedError, both with
// s unchanged.
func (m *Machine) Transition(s State, ev Event) (State, error) {
	if ev.Kind == EventRestart {
		next := NewState()
		next.Steps = s.Steps + 1
		return next, nil
	}
	if s.Exited() {
		return s, &TransitionError{Screen: s.Screen, Event: ev.Kind, Allowed: []EventKind{EventRestart}}
	}
	if ev.Kind == EventBackToStart {
		next := s.clone()
		next.Screen = ScreenEntry
		next.Steps++
		return next, nil
	}

	next := s.clone()
	next.Steps++
	illegal := &TransitionError{Screen: s.Screen, Event: ev.Kind, Allowed: Allowed(s.Screen)}

	switch s.Screen {
	case ScreenEntry:
		switch ev.Kind {
		case EventChooseDirect:
			next.IsGuided = false
			next.Screen = ScreenDirectForm
		case EventChooseGuided:
			next.IsGuided = true
			next.Screen = ScreenGuidedStep1
		case EventExit:
			next.Exit = navigation.ViewDashboard
		default:
			return s, illegal
		}

	case ScreenDirectForm:
		switch ev.Kind {
		case EventSubmit:
			next.FormData = next.FormData.Merge(ev.Data.proposalFields())
			m.enterAIReview(&next)
		case EventBack:
			next.Screen = ScreenEntry
		default:
			return s, illegal
		}

	case ScreenGuidedStep1:
		switch ev.Kind {
		case EventSubmit:
			next.FormData = next.FormData.Merge(FormData{SelectedInterests: ev.Data.SelectedInterests})
			if err := m.guard(next); err != nil {
				return s, err
			}
			next.Screen = ScreenGuidedStep2
		case EventBack:
			next.Screen = ScreenEntry
		default:
			return s, illegal
		}

	case ScreenGuidedStep2:
		switch ev.Kind {
		case EventSubmit:
			next.FormData = next.FormData.Merge(FormData{SelectedSkills: ev.Data.SelectedSkills})
			if err := m.guard(next); err != nil {
				return s, err
			}
			next.Screen = ScreenGuidedStep3
		case EventBack:
			next.Screen = ScreenGuidedStep1
		default:
			return s, illegal
		}

	case ScreenGuidedStep3:
		switch ev.Kind {
		case EventSubmit:
			next.FormData = next.FormData.Merge(FormData{
				SelectedGoals:   ev.Data.SelectedGoals,
				GoalElaboration: ev.Data.GoalElaboration,
			})
			if err := m.guard(next); err != nil {
				return s, err
			}
			next.Screen = ScreenAIRecommendations
		case EventBack:
			next.Screen = ScreenGuidedStep2
		default:
			return s, illegal
		}

	case ScreenAIRecommendations:
		switch ev.Kind {
		case EventSubmit:
			next.FormData = next.FormData.Merge(FormData{SelectedProject: ev.Data.SelectedProject})
			if err := m.guard(next); err != nil {
				return s, err
			}
			rec, _ := findRecommendation(next.FormData.SelectedProject.ID, next.FormData.SelectedInterests)
			next.FormData.SelectedProject = &rec
			if next.IsGuided {
				next.FormData.ProjectDescription = templateFrom(next.FormData.ProjectDescription, rec)
			}
			next.Screen = ScreenTemplateForm
		case EventBack:
			next.Screen = ScreenEntry
		default:
			return s, illegal
		}

	case ScreenTemplateForm:
		switch ev.Kind {
		case EventSubmit:
			next.FormData = next.FormData.Merge(ev.Data.proposalFields())
			m.enterAIReview(&next)
		case EventBack:
			if next.IsGuided {
				next.Screen = ScreenAIRecommendations
			} else {
				next.Screen = ScreenEntry
			}
		default:
			return s, illegal
		}

	case ScreenAIReview:
		switch ev.Kind {
		case EventNext:
			next.Screen = ScreenPeerReviewOptions
		case EventBack:
			next.Screen = ScreenTemplateForm
		default:
			return s, illegal
		}

	case ScreenPeerReviewOptions:
		switch ev.Kind {
		case EventSend:
			next.FormData = next.FormData.Merge(FormData{PeerReview: ev.Data.PeerReview})
			if err := m.guard(next); err != nil {
				return s, err
			}
			next.PeerReviewStatus = PeerReviewReceived
			next.PeerReviews = ScriptedPeerReviews(*next.FormData.PeerReview)
			next.Screen = ScreenPeerReviewReceived
		case EventSkip:
			next.PeerReviewStatus = PeerReviewSkipped
			next.Screen = ScreenFinalReview
		case EventBack:
			next.Screen = ScreenAIReview
		default:
			return s, illegal
		}

	case ScreenPeerReviewReceived:
		switch ev.Kind {
		case EventFinalize:
			next.Screen = ScreenFinalReview
		case EventRequestAnother:
			next.Screen = ScreenPeerReviewOptions
		default:
			return s, illegal
		}

	case ScreenFinalReview:
		switch ev.Kind {
		case EventComplete:
			if err := m.guard(next); err != nil {
				return s, err
			}
			next.Exit = navigation.ViewMentorship
		case EventBack:
			next.Screen = ScreenAIReview
		default:
			return s, illegal
		}

	default:
		return s, illegal
	}

	return next, nil
}

func (m *Machine) guard(candidate State) error {
	if ok, hint := m.CanAdvance(candidate); !ok {
		return &BlockedError{Screen: candidate.Screen, Hint: hint}
	}
	return nil
}

func (m *Machine) enterAIReview(s *State) {
	review := ReviewProposal(s.FormData)
	s.AIReview = &review
	s.AIReviewed = true
	s.Screen = ScreenAIReview
}

// CanAdvance reports whether the current screen's forward action is available, with a
// one-line hint when it is not. Screens without requirements always advance.
func (m *Machine) CanAdvance(s State) (bool, string) {
	f := s.FormData
	switch s.Screen {
	case ScreenGuidedStep1:
		if countNonBlank(f.SelectedInterests) == 0 {
			return false, "Select at least one interest to continue."
		}
	case ScreenGuidedStep2:
		if countNonBlank(f.SelectedSkills) == 0 {
			return false, "Add at least one skill to continue."
		}
	case ScreenGuidedStep3:
		if countNonBlank(f.SelectedGoals) == 0 {
			return false, "Select at least one learning goal."
		}
		if f.GoalElaboration == nil || utf8.RuneCountInString(*f.GoalElaboration) < MinElaborationLength {
			return false, fmt.Sprintf("Tell us more about your goals (at least %d characters).", MinElaborationLength)
		}
	case ScreenAIRecommendations:
		if f.SelectedProject == nil || f.SelectedProject.ID == "" {
			return false, "Choose one recommended project to continue."
		}
		if _, ok := findRecommendation(f.SelectedProject.ID, f.SelectedInterests); !ok {
			return false, "Choose one of the recommended projects."
		}
	case ScreenPeerReviewOptions:
		if f.PeerReview == nil {
			return false, "Choose who should review your proposal."
		}
		switch f.PeerReview.Option {
		case PeerReviewRandom:
		case PeerReviewSpecific:
			if !m.ValidReviewerEmail(f.PeerReview.Email) {
				return false, fmt.Sprintf("Enter a valid %s email for your reviewer.", m.emailDomain)
			}
		default:
			return false, "Choose who should review your proposal."
		}
	case ScreenFinalReview:
		for _, item := range m.Checklist(s) {
			if !item.Done {
				return false, "Complete every checklist item before submitting."
			}
		}
	}
	return true, ""
}

// Checklist derives the final-review readiness items from the state.
func (m *Machine) Checklist(s State) []ChecklistItem {
	f := s.FormData
	return []ChecklistItem{
		{
			Key:   "student-info",
			Label: "Student information is complete",
			Done:  f.StudentInfo != nil && f.StudentInfo.Name != "" && f.StudentInfo.Email != "",
		},
		{
			Key:   "project-description",
			Label: "Project title and summary are written",
			Done:  f.ProjectDescription != nil && f.ProjectDescription.Title != "" && f.ProjectDescription.Summary != "",
		},
		{
			Key:   "ai-review",
			Label: "AI feedback has been reviewed",
			Done:  s.AIReviewed,
		},
		{
			Key:   "peer-review",
			Label: "Peer review received or skipped",
			Done:  s.PeerReviewStatus == PeerReviewReceived || s.PeerReviewStatus == PeerReviewSkipped,
		},
	}
}

// ValidReviewerEmail reports whether email is acceptable for a specific peer reviewer:
// the configured domain after a non-empty local part without spaces or @.
func (m *Machine) ValidReviewerEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	idx := strings.Index(email, m.emailDomain)
	if idx <= 0 {
		return false
	}
	return !strings.ContainsAny(email[:idx], " @")
}

func countNonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
