package directory

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey orders filtered results.
type SortKey string

const (
	SortMatch      SortKey = "match"
	SortExperience SortKey = "experience"
	SortName       SortKey = "name"
)

// ParseSortKey accepts the three sort keys; empty means match.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortMatch:
		return SortMatch, nil
	case SortExperience:
		return SortExperience, nil
	case SortName:
		return SortName, nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

// Bookmarks is a set of mentor ids.
type Bookmarks map[int]struct{}

// NewBookmarks builds a set from ids.
func NewBookmarks(ids ...int) Bookmarks {
	b := make(Bookmarks, len(ids))
	for _, id := range ids {
		b[id] = struct{}{}
	}
	return b
}

// Has reports membership.
func (b Bookmarks) Has(id int) bool {
	_, ok := b[id]
	return ok
}

// Toggle flips membership and reports whether id is now bookmarked.
func (b Bookmarks) Toggle(id int) bool {
	if b.Has(id) {
		delete(b, id)
		return false
	}
	b[id] = struct{}{}
	return true
}

// IDs returns the members in ascending order.
func (b Bookmarks) IDs() []int {
	ids := make([]int, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Query holds the directory page's filter and sort selections.
type Query struct {
	Departments    []string
	Interests      []string
	Search         string
	Sort           SortKey
	BookmarkedOnly bool
	Bookmarks      Bookmarks
}

// Filter applies department, interest, text and bookmark filters, in that order, then a
// stable sort. Filters are conjunctive; interests match when any selected one is present.
// Interests only narrow the result when at least one department is selected.
func Filter(mentors []Mentor, q Query) []Mentor {
	deptNames := make(map[string]struct{}, len(q.Departments))
	for _, id := range q.Departments {
		if d, ok := LookupDepartment(id); ok {
			deptNames[d.Name] = struct{}{}
		}
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Mentor, 0, len(mentors))
	for _, m := range mentors {
		if len(q.Departments) > 0 {
			if _, ok := deptNames[m.Department]; !ok {
				continue
			}
			if len(q.Interests) > 0 && !hasAnyInterest(m, q.Interests) {
				continue
			}
		}
		if needle != "" && !matchesText(m, needle) {
			continue
		}
		if q.BookmarkedOnly && !q.Bookmarks.Has(m.ID) {
			continue
		}
		out = append(out, clone(m))
	}

	sortMentors(out, q.Sort)
	return out
}

func hasAnyInterest(m Mentor, selected []string) bool {
	for _, want := range selected {
		for _, have := range m.Interests {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesText(m Mentor, needle string) bool {
	if strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.Tagline), needle) ||
		strings.Contains(strings.ToLower(m.Department), needle) {
		return true
	}
	for _, interest := range m.Interests {
		if strings.Contains(strings.ToLower(interest), needle) {
			return true
		}
	}
	return false
}

func sortMentors(list []Mentor, key SortKey) {
	switch key {
	case SortExperience:
		sort.SliceStable(list, func(i, j int) bool { return list[i].YearsExperience > list[j].YearsExperience })
	case SortName:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	default:
		sort.SliceStable(list, func(i, j int) bool { return list[i].MatchPercentage > list[j].MatchPercentage })
	}
}
