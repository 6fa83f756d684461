package directory

// Icon identifies the glyph a client renders next to a department.
type Icon string

const (
	IconCode     Icon = "code"
	IconDNA      Icon = "dna"
	IconBrain    Icon = "brain"
	IconChart    Icon = "trending-up"
	IconLeaf     Icon = "leaf"
	IconSigma    Icon = "sigma"
	IconBookOpen Icon = "book-open"
	IconFallback Icon = "graduation-cap"
)

// Department groups mentors and the sub-interests students can narrow by.
type Department struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Icon         Icon     `json:"icon"`
	SubInterests []string `json:"subInterests"`
}

var departments = []Department{
	{
		ID:           "computer-science",
		Name:         "Computer Science",
		Icon:         IconCode,
		SubInterests: []string{"Machine Learning", "Human-Computer Interaction", "Systems", "Security", "Data Science"},
	},
	{
		ID:           "biology",
		Name:         "Biology",
		Icon:         IconDNA,
		SubInterests: []string{"Genetics", "Ecology", "Neuroscience", "Microbiology"},
	},
	{
		ID:           "psychology",
		Name:         "Psychology",
		Icon:         IconBrain,
		SubInterests: []string{"Cognitive Psychology", "Developmental Psychology", "Neuroscience", "Social Psychology"},
	},
	{
		ID:           "economics",
		Name:         "Economics",
		Icon:         IconChart,
		SubInterests: []string{"Behavioral Economics", "Public Policy", "Data Science", "Development Economics"},
	},
	{
		ID:           "environmental-science",
		Name:         "Environmental Science",
		Icon:         IconLeaf,
		SubInterests: []string{"Climate", "Ecology", "Sustainability", "Public Policy"},
	},
	{
		ID:           "mathematics",
		Name:         "Mathematics",
		Icon:         IconSigma,
		SubInterests: []string{"Statistics", "Applied Mathematics", "Machine Learning", "Number Theory"},
	},
	{
		ID:           "english",
		Name:         "English",
		Icon:         IconBookOpen,
		SubInterests: []string{"Creative Writing", "Digital Humanities", "Rhetoric"},
	},
}

var departmentIndex = func() map[string]Department {
	idx := make(map[string]Department, len(departments))
	for _, d := range departments {
		idx[d.ID] = d
	}
	return idx
}()

// Departments returns a copy of the department table.
func Departments() []Department {
	out := make([]Department, len(departments))
	for i, d := range departments {
		d.SubInterests = append([]string(nil), d.SubInterests...)
		out[i] = d
	}
	return out
}

// LookupDepartment finds a department by id.
func LookupDepartment(id string) (Department, bool) {
	d, ok := departmentIndex[id]
	return d, ok
}

// IconFor resolves the icon of a department id, falling back to a generic glyph.
func IconFor(id string) Icon {
	if d, ok := departmentIndex[id]; ok {
		return d.Icon
	}
	return IconFallback
}
