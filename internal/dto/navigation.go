package dto

import "github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"

// NavigationResolveResponse maps a path onto a top-level view.
type NavigationResolveResponse struct {
	Path          string          `json:"path"`
	View          navigation.View `json:"view"`
	CanonicalPath string          `json:"canonicalPath"`
}

// NavigationViewResponse lists one view and its canonical path.
type NavigationViewResponse struct {
	View navigation.View `json:"view"`
	Path string          `json:"path"`
}
