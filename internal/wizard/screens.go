package wizard

import "fmt"

// Screen is one named step of the Project Builder.
type Screen string

const (
	ScreenEntry              Screen = "entry"
	ScreenDirectForm         Screen = "direct-form"
	ScreenGuidedStep1        Screen = "guided-step1"
	ScreenGuidedStep2        Screen = "guided-step2"
	ScreenGuidedStep3        Screen = "guided-step3"
	ScreenAIRecommendations  Screen = "ai-recommendations"
	ScreenTemplateForm       Screen = "template-form"
	ScreenAIReview           Screen = "ai-review"
	ScreenPeerReviewOptions  Screen = "peer-review-options"
	ScreenPeerReviewReceived Screen = "peer-review-received"
	ScreenFinalReview        Screen = "final-review"
)

// Screens lists every screen in flow order.
func Screens() []Screen {
	return []Screen{
		ScreenEntry, ScreenDirectForm,
		ScreenGuidedStep1, ScreenGuidedStep2, ScreenGuidedStep3,
		ScreenAIRecommendations, ScreenTemplateForm, ScreenAIReview,
		ScreenPeerReviewOptions, ScreenPeerReviewReceived, ScreenFinalReview,
	}
}

// ParseScreen validates a screen name.
func ParseScreen(raw string) (Screen, error) {
	for _, s := range Screens() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown screen %q", raw)
}

// EventKind names a user action on a screen.
type EventKind string

const (
	EventChooseDirect   EventKind = "choose-direct"
	EventChooseGuided   EventKind = "choose-guided"
	EventSubmit         EventKind = "submit"
	EventBack           EventKind = "back"
	EventBackToStart    EventKind = "back-to-start"
	EventNext           EventKind = "next"
	EventSend           EventKind = "send"
	EventSkip           EventKind = "skip"
	EventFinalize       EventKind = "finalize"
	EventRequestAnother EventKind = "request-another"
	EventComplete       EventKind = "complete"
	EventRestart        EventKind = "restart"
	EventExit           EventKind = "exit"
)

// EventKinds lists every accepted event.
func EventKinds() []EventKind {
	return []EventKind{
		EventChooseDirect, EventChooseGuided, EventSubmit, EventBack, EventBackToStart,
		EventNext, EventSend, EventSkip, EventFinalize, EventRequestAnother,
		EventComplete, EventRestart, EventExit,
	}
}

// ParseEventKind validates an event name.
func ParseEventKind(raw string) (EventKind, error) {
	for _, k := range EventKinds() {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown event %q", raw)
}

// Edge documents one row of the transition table. To is empty for exits out of the
// builder; When qualifies edges that depend on the entry path.
type Edge struct {
	From    Screen    `json:"from" yaml:"from"`
	Event   EventKind `json:"event" yaml:"event"`
	To      Screen    `json:"to,omitempty" yaml:"to,omitempty"`
	Exit    string    `json:"exit,omitempty" yaml:"exit,omitempty"`
	Guarded bool      `json:"guarded" yaml:"guarded"`
	When    string    `json:"when,omitempty" yaml:"when,omitempty"`
}

var table = []Edge{
	{From: ScreenEntry, Event: EventChooseDirect, To: ScreenDirectForm},
	{From: ScreenEntry, Event: EventChooseGuided, To: ScreenGuidedStep1},
	{From: ScreenEntry, Event: EventExit, Exit: "dashboard"},
	{From: ScreenDirectForm, Event: EventSubmit, To: ScreenAIReview},
	{From: ScreenDirectForm, Event: EventBack, To: ScreenEntry},
	{From: ScreenGuidedStep1, Event: EventSubmit, To: ScreenGuidedStep2, Guarded: true},
	{From: ScreenGuidedStep1, Event: EventBack, To: ScreenEntry},
	{From: ScreenGuidedStep2, Event: EventSubmit, To: ScreenGuidedStep3, Guarded: true},
	{From: ScreenGuidedStep2, Event: EventBack, To: ScreenGuidedStep1},
	{From: ScreenGuidedStep3, Event: EventSubmit, To: ScreenAIRecommendations, Guarded: true},
	{From: ScreenGuidedStep3, Event: EventBack, To: ScreenGuidedStep2},
	{From: ScreenAIRecommendations, Event: EventSubmit, To: ScreenTemplateForm, Guarded: true},
	{From: ScreenAIRecommendations, Event: EventBack, To: ScreenEntry},
	{From: ScreenTemplateForm, Event: EventSubmit, To: ScreenAIReview},
	{From: ScreenTemplateForm, Event: EventBack, To: ScreenAIRecommendations, When: "guided"},
	{From: ScreenTemplateForm, Event: EventBack, To: ScreenEntry, When: "direct"},
	{From: ScreenAIReview, Event: EventNext, To: ScreenPeerReviewOptions},
	{From: ScreenAIReview, Event: EventBack, To: ScreenTemplateForm},
	{From: ScreenPeerReviewOptions, Event: EventSend, To: ScreenPeerReviewReceived, Guarded: true},
	{From: ScreenPeerReviewOptions, Event: EventSkip, To: ScreenFinalReview},
	{From: ScreenPeerReviewOptions, Event: EventBack, To: ScreenAIReview},
	{From: ScreenPeerReviewReceived, Event: EventFinalize, To: ScreenFinalReview},
	{From: ScreenPeerReviewReceived, Event: EventRequestAnother, To: ScreenPeerReviewOptions},
	{From: ScreenFinalReview, Event: EventComplete, Exit: "mentorship", Guarded: true},
	{From: ScreenFinalReview, Event: EventBack, To: ScreenAIReview},
}

// Table returns the static transition table. back-to-start and restart are accepted on
// every screen and are not repeated per row.
func Table() []Edge {
	out := make([]Edge, len(table))
	copy(out, table)
	return out
}

// Allowed lists the events a screen accepts, including the global ones.
func Allowed(screen Screen) []EventKind {
	seen := make(map[EventKind]struct{})
	var out []EventKind
	for _, e := range table {
		if e.From != screen {
			continue
		}
		if _, ok := seen[e.Event]; ok {
			continue
		}
		seen[e.Event] = struct{}{}
		out = append(out, e.Event)
	}
	return append(out, EventBackToStart, EventRestart)
}
