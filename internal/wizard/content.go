package wizard

import (
	"fmt"
	"strings"
)

// Recommendation is a scripted project idea offered after the guided steps.
type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Interest    string   `json:"interest"`
	Duration    string   `json:"duration"`
	Skills      []string `json:"skills"`
	Outcomes    []string `json:"outcomes"`
	MatchScore  int      `json:"matchScore"`
}

func (r Recommendation) clone() Recommendation {
	r.Skills = cloneStrings(r.Skills)
	r.Outcomes = cloneStrings(r.Outcomes)
	return r
}

// AIReview is the scripted feedback shown on the ai-review screen.
type AIReview struct {
	Score       int      `json:"score"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
}

// PeerReview is one scripted review returned after a send.
type PeerReview struct {
	Reviewer string `json:"reviewer"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

var interestCatalog = []string{
	"Artificial Intelligence",
	"Environmental Sustainability",
	"Public Health",
	"Education Technology",
	"Social Justice",
	"Data Visualization",
	"Creative Arts",
	"Entrepreneurship",
}

var skillCatalog = []string{
	"Python",
	"Data Analysis",
	"Research Methods",
	"Academic Writing",
	"Statistics",
	"Web Development",
	"UX Design",
	"Public Speaking",
	"Project Management",
}

var goalCatalog = []string{
	"Build a portfolio piece",
	"Prepare for graduate school",
	"Publish or present research",
	"Gain industry experience",
	"Explore a new field",
	"Develop technical skills",
}

// Interests returns the options for guided step one.
func Interests() []string { return cloneStrings(interestCatalog) }

// Skills returns the fixed skill catalog for guided step two. Free-typed skills are
// accepted as well.
func Skills() []string { return cloneStrings(skillCatalog) }

// Goals returns the learning goals for guided step three.
func Goals() []string { return cloneStrings(goalCatalog) }

var recommendationsByInterest = map[string]Recommendation{
	"Artificial Intelligence": {
		ID:          "rec-ai-tutor",
		Title:       "AI Study Buddy for Intro Courses",
		Description: "Prototype a course-specific assistant that answers practice questions and flags common misconceptions.",
		Duration:    "1 semester",
		Skills:      []string{"Python", "Research Methods"},
		Outcomes:    []string{"Working prototype", "Evaluation with 10 students", "Short report"},
		MatchScore:  94,
	},
	"Environmental Sustainability": {
		ID:          "rec-campus-energy",
		Title:       "Campus Energy Use Dashboard",
		Description: "Collect building energy data and build a public dashboard that highlights savings opportunities.",
		Duration:    "1 semester",
		Skills:      []string{"Data Analysis", "Web Development"},
		Outcomes:    []string{"Cleaned dataset", "Interactive dashboard", "Recommendations memo"},
		MatchScore:  91,
	},
	"Public Health": {
		ID:          "rec-health-access",
		Title:       "Mapping Student Health Service Access",
		Description: "Survey students about barriers to health services and map where gaps cluster.",
		Duration:    "1 semester",
		Skills:      []string{"Research Methods", "Statistics"},
		Outcomes:    []string{"Survey instrument", "Analysis report", "Poster"},
		MatchScore:  89,
	},
	"Education Technology": {
		ID:          "rec-edtech-eval",
		Title:       "Evaluating a Flipped Classroom Tool",
		Description: "Run a small comparative study of an existing flipped-classroom tool in one course section.",
		Duration:    "1 semester",
		Skills:      []string{"Research Methods", "Academic Writing"},
		Outcomes:    []string{"Study protocol", "Findings paper"},
		MatchScore:  87,
	},
	"Social Justice": {
		ID:          "rec-oral-history",
		Title:       "Community Oral History Archive",
		Description: "Record and annotate oral histories with a local community organisation.",
		Duration:    "2 semesters",
		Skills:      []string{"Public Speaking", "Academic Writing"},
		Outcomes:    []string{"Recorded interviews", "Annotated archive"},
		MatchScore:  85,
	},
	"Data Visualization": {
		ID:          "rec-viz-story",
		Title:       "Data Stories from Open City Data",
		Description: "Turn a municipal open dataset into a short series of explanatory visual stories.",
		Duration:    "1 semester",
		Skills:      []string{"Data Analysis", "UX Design"},
		Outcomes:    []string{"Three published visual stories"},
		MatchScore:  90,
	},
	"Creative Arts": {
		ID:          "rec-generative-art",
		Title:       "Generative Art Exhibition",
		Description: "Create a small body of generative artwork and curate it for a student gallery show.",
		Duration:    "1 semester",
		Skills:      []string{"Python", "UX Design"},
		Outcomes:    []string{"Artwork series", "Artist statement", "Exhibition"},
		MatchScore:  82,
	},
	"Entrepreneurship": {
		ID:          "rec-venture-lab",
		Title:       "Customer Discovery Sprint",
		Description: "Interview potential users for a student venture idea and validate the core problem.",
		Duration:    "1 semester",
		Skills:      []string{"Public Speaking", "Project Management"},
		Outcomes:    []string{"30 interviews", "Validated problem statement", "Pitch deck"},
		MatchScore:  84,
	},
}

var fallbackRecommendations = []Recommendation{
	{
		ID:          "rec-literature-review",
		Title:       "Structured Literature Review",
		Description: "Survey the literature on a question of your choice and synthesise open problems.",
		Duration:    "1 semester",
		Skills:      []string{"Research Methods", "Academic Writing"},
		Outcomes:    []string{"Annotated bibliography", "Review paper"},
		MatchScore:  75,
	},
	{
		ID:          "rec-replication",
		Title:       "Replicate a Published Study",
		Description: "Reproduce the main result of a recent paper and document what it took.",
		Duration:    "1 semester",
		Skills:      []string{"Data Analysis", "Statistics"},
		Outcomes:    []string{"Replication package", "Short report"},
		MatchScore:  72,
	},
	{
		ID:          "rec-build-tool",
		Title:       "Build a Tool for Your Department",
		Description: "Work with staff to build a small tool that removes a repetitive manual task.",
		Duration:    "1 semester",
		Skills:      []string{"Web Development", "Project Management"},
		Outcomes:    []string{"Deployed tool", "Handover guide"},
		MatchScore:  70,
	},
}

const maxRecommendations = 3

// Recommendations derives up to three project ideas from selected interests, in the
// order the interests were selected. Unknown interests fall back to generic ideas.
func Recommendations(interests []string) []Recommendation {
	out := make([]Recommendation, 0, maxRecommendations)
	seen := make(map[string]struct{})
	for _, interest := range interests {
		rec, ok := recommendationsByInterest[interest]
		if !ok {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		rec = rec.clone()
		rec.Interest = interest
		out = append(out, rec)
		if len(out) == maxRecommendations {
			return out
		}
	}
	for _, rec := range fallbackRecommendations {
		if len(out) == maxRecommendations {
			break
		}
		out = append(out, rec.clone())
	}
	return out
}

func findRecommendation(id string, interests []string) (Recommendation, bool) {
	for _, rec := range Recommendations(interests) {
		if rec.ID == id {
			return rec, true
		}
	}
	return Recommendation{}, false
}

// templateFrom prefills a proposal body from a recommendation, keeping anything the
// student already wrote.
func templateFrom(existing *ProjectDescription, rec Recommendation) *ProjectDescription {
	pd := ProjectDescription{}
	if existing != nil {
		pd = *existing
	}
	if pd.Title == "" {
		pd.Title = rec.Title
	}
	if pd.Summary == "" {
		pd.Summary = rec.Description
	}
	if pd.Objectives == "" && len(rec.Skills) > 0 {
		pd.Objectives = "Develop skills in " + strings.Join(rec.Skills, " and ") + "."
	}
	if pd.Methodology == "" {
		pd.Methodology = fmt.Sprintf("Planned over %s with weekly mentor check-ins.", rec.Duration)
	}
	if pd.ExpectedOutcomes == "" {
		pd.ExpectedOutcomes = strings.Join(rec.Outcomes, "; ")
	}
	return &pd
}

// ReviewProposal produces the scripted AI feedback from which fields are filled in.
func ReviewProposal(f FormData) AIReview {
	review := AIReview{Score: 60}
	pd := f.ProjectDescription
	if pd != nil && pd.Title != "" {
		review.Strengths = append(review.Strengths, "Clear, specific project title.")
		review.Score += 5
	}
	if pd != nil && len([]rune(pd.Summary)) >= 80 {
		review.Strengths = append(review.Strengths, "Summary gives enough context for a mentor to engage.")
		review.Score += 10
	} else {
		review.Suggestions = append(review.Suggestions, "Expand the summary so a mentor understands the problem and why it matters.")
	}
	if pd != nil && pd.Objectives != "" {
		review.Strengths = append(review.Strengths, "Objectives are stated.")
		review.Score += 5
	} else {
		review.Suggestions = append(review.Suggestions, "List two or three measurable objectives.")
	}
	if pd != nil && pd.Methodology != "" {
		review.Score += 5
	} else {
		review.Suggestions = append(review.Suggestions, "Describe how you will carry out the work week to week.")
	}
	if f.Requirements != nil && len(f.Requirements.Deliverables) > 0 {
		review.Strengths = append(review.Strengths, "Deliverables are concrete.")
		review.Score += 10
	} else {
		review.Suggestions = append(review.Suggestions, "Name the deliverables your mentor will evaluate.")
	}
	if f.FacultyContact != nil && f.FacultyContact.Name != "" {
		review.Score += 5
	} else {
		review.Suggestions = append(review.Suggestions, "Identify a faculty sponsor or use mentor matching to find one.")
	}
	if review.Score > 100 {
		review.Score = 100
	}
	return review
}

// ScriptedPeerReviews returns the canned reviews for a send.
func ScriptedPeerReviews(req PeerReviewRequest) []PeerReview {
	reviewer := "Anonymous peer"
	if req.Option == PeerReviewSpecific && req.Email != "" {
		reviewer = req.Email
	}
	return []PeerReview{
		{
			Reviewer: reviewer,
			Rating:   4,
			Comments: "The goal is compelling. Narrow the scope of the first milestone so you can show progress early.",
		},
		{
			Reviewer: reviewer,
			Rating:   5,
			Comments: "Deliverables are well chosen. Consider adding a short check-in plan with your mentor.",
		},
	}
}
