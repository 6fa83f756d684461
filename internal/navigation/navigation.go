// Package navigation maps the three top-level views of the platform to URL paths and
// keeps a browser-style history of visited paths.
package navigation

import (
	"fmt"
	"strings"
	"sync"
)

// View is one of the top-level pages.
type View string

const (
	ViewDashboard      View = "dashboard"
	ViewMentorship     View = "mentorship"
	ViewProjectBuilder View = "project-builder"
)

var viewPaths = map[View]string{
	ViewDashboard:      "/dashboard",
	ViewMentorship:     "/mentors",
	ViewProjectBuilder: "/project-builder",
}

// Views lists every view in display order.
func Views() []View {
	return []View{ViewDashboard, ViewMentorship, ViewProjectBuilder}
}

// ParseView validates a view name.
func ParseView(raw string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := viewPaths[v]; !ok {
		return "", fmt.Errorf("unknown view %q", raw)
	}
	return v, nil
}

// ViewForPath resolves the view a path belongs to. Unrecognised paths land on mentorship.
func ViewForPath(path string) View {
	p := strings.ToLower(strings.TrimSpace(path))
	switch {
	case p == "" || p == "/":
		return ViewDashboard
	case strings.Contains(p, "dashboard"), strings.Contains(p, "student"):
		return ViewDashboard
	case strings.Contains(p, "project-builder"):
		return ViewProjectBuilder
	default:
		return ViewMentorship
	}
}

// PathForView returns the canonical path of a view.
func PathForView(v View) string {
	if p, ok := viewPaths[v]; ok {
		return p
	}
	return viewPaths[ViewMentorship]
}

// History is a linear back/forward stack of paths. Navigate truncates any forward
// entries, like a browser does.
type History struct {
	mu      sync.Mutex
	entries []string
	cursor  int
}

// NewHistory starts a history at the given path.
func NewHistory(initial string) *History {
	if initial == "" {
		initial = "/"
	}
	return &History{entries: []string{initial}}
}

// Current returns the active path and its view.
func (h *History) Current() (string, View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := h.entries[h.cursor]
	return p, ViewForPath(p)
}

// Navigate moves to the view's path, pushing an entry only if the path changes.
// It reports whether an entry was pushed.
func (h *History) Navigate(v View) bool {
	return h.NavigatePath(PathForView(v))
}

// NavigatePath is Navigate for an explicit path.
func (h *History) NavigatePath(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.cursor] == path {
		return false
	}
	h.entries = append(h.entries[:h.cursor+1], path)
	h.cursor++
	return true
}

// Back steps one entry back. ok is false at the start of history.
func (h *History) Back() (View, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor == 0 {
		return ViewForPath(h.entries[0]), false
	}
	h.cursor--
	return ViewForPath(h.entries[h.cursor]), true
}

// Forward steps one entry forward. ok is false at the end of history.
func (h *History) Forward() (View, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor == len(h.entries)-1 {
		return ViewForPath(h.entries[h.cursor]), false
	}
	h.cursor++
	return ViewForPath(h.entries[h.cursor]), true
}

// Len is the number of entries held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
