package directory

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mentors.yaml
var defaultCatalog []byte

// Mentor is an immutable catalog entry.
type Mentor struct {
	ID              int      `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Title           string   `yaml:"title" json:"title"`
	Tagline         string   `yaml:"tagline" json:"tagline"`
	Department      string   `yaml:"-" json:"department"`
	DepartmentID    string   `yaml:"departmentId" json:"departmentId"`
	Interests       []string `yaml:"interests" json:"interests"`
	MatchPercentage int      `yaml:"matchPercentage" json:"matchPercentage"`
	YearsExperience int      `yaml:"yearsExperience" json:"yearsExperience"`
	Email           string   `yaml:"email" json:"email"`
	Availability    string   `yaml:"availability" json:"availability"`
}

// Catalog is a read-only list of mentors. Callers receive copies.
type Catalog struct {
	mentors []Mentor
	byID    map[int]int
}

type catalogFile struct {
	Mentors []Mentor `yaml:"mentors"`
}

// DefaultCatalog parses the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and validates a YAML mentor catalog.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode mentor catalog: %w", err)
	}
	if len(file.Mentors) == 0 {
		return nil, fmt.Errorf("mentor catalog is empty")
	}

	c := &Catalog{mentors: make([]Mentor, 0, len(file.Mentors)), byID: make(map[int]int, len(file.Mentors))}
	for _, m := range file.Mentors {
		if m.ID <= 0 {
			return nil, fmt.Errorf("mentor %q: id must be positive", m.Name)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("mentor %d: duplicate id", m.ID)
		}
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("mentor %d: name required", m.ID)
		}
		dept, ok := LookupDepartment(m.DepartmentID)
		if !ok {
			return nil, fmt.Errorf("mentor %d: unknown department %q", m.ID, m.DepartmentID)
		}
		if m.MatchPercentage < 0 || m.MatchPercentage > 100 {
			return nil, fmt.Errorf("mentor %d: match percentage %d out of range", m.ID, m.MatchPercentage)
		}
		m.Department = dept.Name
		c.byID[m.ID] = len(c.mentors)
		c.mentors = append(c.mentors, m)
	}
	return c, nil
}

// All returns every mentor in catalog order.
func (c *Catalog) All() []Mentor {
	out := make([]Mentor, len(c.mentors))
	for i, m := range c.mentors {
		out[i] = clone(m)
	}
	return out
}

// Get returns a mentor by id.
func (c *Catalog) Get(id int) (Mentor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Mentor{}, false
	}
	return clone(c.mentors[i]), true
}

// Len is the number of mentors.
func (c *Catalog) Len() int {
	return len(c.mentors)
}

func clone(m Mentor) Mentor {
	m.Interests = append([]string(nil), m.Interests...)
	return m
}
