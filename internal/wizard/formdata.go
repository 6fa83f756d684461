package wizard

// StudentInfo identifies the proposing student.
type StudentInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	Major     string `json:"major"`
	Year      string `json:"year"`
}

// ProjectDescription is the body of the proposal.
type ProjectDescription struct {
	Title            string `json:"title"`
	Summary          string `json:"summary"`
	Objectives       string `json:"objectives"`
	Methodology      string `json:"methodology"`
	ExpectedOutcomes string `json:"expectedOutcomes"`
}

// Requirements captures credit and scheduling details.
type Requirements struct {
	Credits      int      `json:"credits"`
	Semester     string   `json:"semester"`
	HoursPerWeek int      `json:"hoursPerWeek"`
	Deliverables []string `json:"deliverables"`
}

// FacultyContact is the sponsoring faculty member, if already known.
type FacultyContact struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// PeerReviewOption picks who reviews the draft.
type PeerReviewOption string

const (
	PeerReviewRandom   PeerReviewOption = "random"
	PeerReviewSpecific PeerReviewOption = "specific"
)

// PeerReviewRequest is submitted on the peer-review-options screen.
type PeerReviewRequest struct {
	Option PeerReviewOption `json:"option"`
	Email  string           `json:"email,omitempty"`
}

// FormData accumulates everything entered across screens. A nil field was never
// submitted; Merge only replaces fields present in the patch.
type FormData struct {
	StudentInfo        *StudentInfo        `json:"studentInfo,omitempty"`
	ProjectDescription *ProjectDescription `json:"projectDescription,omitempty"`
	Requirements       *Requirements       `json:"requirements,omitempty"`
	FacultyContact     *FacultyContact     `json:"facultyContact,omitempty"`

	SelectedInterests []string        `json:"selectedInterests,omitempty"`
	SelectedSkills    []string        `json:"selectedSkills,omitempty"`
	SelectedGoals     []string        `json:"selectedGoals,omitempty"`
	GoalElaboration   *string         `json:"goalElaboration,omitempty"`
	SelectedProject   *Recommendation `json:"selectedProject,omitempty"`

	PeerReview *PeerReviewRequest `json:"peerReview,omitempty"`
}

// Merge returns f with every field present in patch overwritten. Fields absent from
// patch are kept as they were.
func (f FormData) Merge(patch FormData) FormData {
	out := f.Clone()
	if patch.StudentInfo != nil {
		v := *patch.StudentInfo
		out.StudentInfo = &v
	}
	if patch.ProjectDescription != nil {
		v := *patch.ProjectDescription
		out.ProjectDescription = &v
	}
	if patch.Requirements != nil {
		v := *patch.Requirements
		v.Deliverables = cloneStrings(v.Deliverables)
		out.Requirements = &v
	}
	if patch.FacultyContact != nil {
		v := *patch.FacultyContact
		out.FacultyContact = &v
	}
	if patch.SelectedInterests != nil {
		out.SelectedInterests = cloneStrings(patch.SelectedInterests)
	}
	if patch.SelectedSkills != nil {
		out.SelectedSkills = cloneStrings(patch.SelectedSkills)
	}
	if patch.SelectedGoals != nil {
		out.SelectedGoals = cloneStrings(patch.SelectedGoals)
	}
	if patch.GoalElaboration != nil {
		v := *patch.GoalElaboration
		out.GoalElaboration = &v
	}
	if patch.SelectedProject != nil {
		v := patch.SelectedProject.clone()
		out.SelectedProject = &v
	}
	if patch.PeerReview != nil {
		v := *patch.PeerReview
		out.PeerReview = &v
	}
	return out
}

// Clone deep-copies f.
func (f FormData) Clone() FormData {
	out := f
	if f.StudentInfo != nil {
		v := *f.StudentInfo
		out.StudentInfo = &v
	}
	if f.ProjectDescription != nil {
		v := *f.ProjectDescription
		out.ProjectDescription = &v
	}
	if f.Requirements != nil {
		v := *f.Requirements
		v.Deliverables = cloneStrings(v.Deliverables)
		out.Requirements = &v
	}
	if f.FacultyContact != nil {
		v := *f.FacultyContact
		out.FacultyContact = &v
	}
	out.SelectedInterests = cloneStrings(f.SelectedInterests)
	out.SelectedSkills = cloneStrings(f.SelectedSkills)
	out.SelectedGoals = cloneStrings(f.SelectedGoals)
	if f.GoalElaboration != nil {
		v := *f.GoalElaboration
		out.GoalElaboration = &v
	}
	if f.SelectedProject != nil {
		v := f.SelectedProject.clone()
		out.SelectedProject = &v
	}
	if f.PeerReview != nil {
		v := *f.PeerReview
		out.PeerReview = &v
	}
	return out
}

// proposalFields keeps only the sub-records a proposal form submits.
func (f FormData) proposalFields() FormData {
	return FormData{
		StudentInfo:        f.StudentInfo,
		ProjectDescription: f.ProjectDescription,
		Requirements:       f.Requirements,
		FacultyContact:     f.FacultyContact,
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
