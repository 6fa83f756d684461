package dto

import "github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"

// ExportRequest starts a completed-work export.
type ExportRequest struct {
	Format models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}
