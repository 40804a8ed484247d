package navigation

import (
	"net/url"

	"skill-bridge/internal/domain/session"
)

type View string

const (
	ViewHome             View = "home"
	ViewDashboard        View = "dashboard"
	ViewJobSelection     View = "job_selection"
	ViewSkillsAssessment View = "skills_assessment"
	ViewGapAnalysis      View = "gap_analysis"
	ViewRecommendations  View = "recommendations"
)

// Path is the client route for the view. The skills assessment route carries
// the job id when one is known.
func (v View) Path(jobID string) string {
	switch v {
	case ViewDashboard:
		return "/dashboard"
	case ViewJobSelection:
		return "/job-selection"
	case ViewSkillsAssessment:
		if jobID == "" {
			return "/skills-assessment"
		}
		return "/skills-assessment/" + url.PathEscape(jobID)
	case ViewGapAnalysis:
		return "/gap-analysis"
	case ViewRecommendations:
		return "/recommendations"
	default:
		return "/"
	}
}

// Notice is the dismissible message shown after a redirect.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	NoticeNotSignedIn = Notice{Title: "Not signed in", Description: "Please log in to continue"}
	NoticeNoJob       = Notice{Title: "No job selected", Description: "Please select a job role first"}
	NoticeJobNotFound = Notice{Title: "Job not found", Description: "Please select a valid job role"}
	NoticeNoSkills    = Notice{Title: "No skills data", Description: "Please complete the skills assessment first"}
	NoticeNoGaps      = Notice{Title: "No gap analysis", Description: "Please submit your skills assessment to compute your skill gaps"}
)

type Decision struct {
	Allowed  bool
	Redirect View
	Path     string
	Notice   Notice
}

// Requirement is one precondition on the session.
type Requirement int

const (
	RequireNothing Requirement = iota
	RequireAuth
	RequireJob
	RequireSkills
	RequireGaps
)

func (v View) Requirement() Requirement {
	switch v {
	case ViewDashboard, ViewJobSelection:
		return RequireAuth
	case ViewSkillsAssessment:
		return RequireJob
	case ViewGapAnalysis:
		return RequireSkills
	case ViewRecommendations:
		return RequireGaps
	default:
		return RequireNothing
	}
}

// JobSkills resolves a job id to its skill ids; ok is false when the job does
// not exist.
type JobSkills func(jobID string) (skillIDs []string, ok bool)

// Check evaluates the preconditions of view in order and, on the first one
// that fails, points at the nearest earlier view that can be shown.
func Check(view View, st session.State, jobs JobSkills) Decision {
	req := view.Requirement()

	if req >= RequireAuth && !st.Authenticated() {
		return redirect(ViewHome, "", NoticeNotSignedIn)
	}
	if req < RequireJob {
		return Decision{Allowed: true}
	}

	if !st.HasJob() {
		return redirect(ViewJobSelection, "", NoticeNoJob)
	}
	skillIDs, ok := jobs(st.SelectedJob)
	if !ok {
		return redirect(ViewJobSelection, "", NoticeJobNotFound)
	}
	if req < RequireSkills {
		return Decision{Allowed: true}
	}

	if !st.HasSkills() {
		return redirect(ViewSkillsAssessment, st.SelectedJob, NoticeNoSkills)
	}
	if req < RequireGaps {
		return Decision{Allowed: true}
	}

	if !st.GapsCover(skillIDs) {
		return redirect(ViewSkillsAssessment, st.SelectedJob, NoticeNoGaps)
	}
	return Decision{Allowed: true}
}

func redirect(to View, jobID string, n Notice) Decision {
	return Decision{Redirect: to, Path: to.Path(jobID), Notice: n}
}
