package dto

import (
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
)

// WizardEventRequest carries one Project Builder event.
type WizardEventRequest struct {
	Event string          `json:"event" validate:"required"`
	Data  wizard.FormData `json:"data"`
}

// WizardSessionResponse is the client view of a session after every operation.
type WizardSessionResponse struct {
	ID           string                  `json:"id"`
	State        wizard.State            `json:"state"`
	CanAdvance   bool                    `json:"canAdvance"`
	Hint         string                  `json:"hint,omitempty"`
	Allowed      []wizard.EventKind      `json:"allowedEvents"`
	Checklist    []wizard.ChecklistItem  `json:"checklist,omitempty"`
	Recommended  []wizard.Recommendation `json:"recommendations,omitempty"`
	Exit         navigation.View         `json:"exit,omitempty"`
	RedirectPath string                  `json:"redirectPath,omitempty"`
}

// WizardCatalogResponse lists the guided-step choices.
type WizardCatalogResponse struct {
	Interests []string `json:"interests"`
	Skills    []string `json:"skills"`
	Goals     []string `json:"goals"`
}

// PeerInviteResponse describes a shareable peer-review invite.
type PeerInviteResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	QRCodeURL string `json:"qrCodeUrl"`
}

// PeerInviteRequest asks for an invite link addressed to a specific reviewer.
type PeerInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}
