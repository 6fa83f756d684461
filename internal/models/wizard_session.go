package models

import (
	"time"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
)

// WizardSession is a persisted Project Builder run owned by one user.
type WizardSession struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	State     wizard.State `json:"state"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
