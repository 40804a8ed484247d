package dto

type NoticeResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RedirectResponse is the body of a 409 when a view's preconditions fail.
type RedirectResponse struct {
	Redirect string         `json:"redirect"`
	Path     string         `json:"path"`
	Notice   NoticeResponse `json:"notice"`
}

type StepResponse struct {
	View      string `json:"view"`
	Path      string `json:"path"`
	Completed bool   `json:"completed"`
	Enabled   bool   `json:"enabled"`
}

type CategoryResponse struct {
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

type DashboardResponse struct {
	User            UserResponse       `json:"user"`
	SelectedJob     *JobRoleResponse   `json:"selected_job"`
	HasSkills       bool               `json:"has_skills"`
	HasGaps         bool               `json:"has_gaps"`
	MatchPercentage *int               `json:"match_percentage"`
	Steps           []StepResponse     `json:"steps"`
	Categories      []CategoryResponse `json:"categories"`
}

type SelectJobRequest struct {
	JobID string `json:"job_id"`
}

type AssessedSkillResponse struct {
	SkillResponse
	Selected bool `json:"selected"`
}

type SkillGroupResponse struct {
	Category string                  `json:"category"`
	Skills   []AssessedSkillResponse `json:"skills"`
}

type AssessmentResponse struct {
	Job    JobRoleResponse      `json:"job"`
	Groups []SkillGroupResponse `json:"groups"`
}

type SubmitSkillsRequest struct {
	Skills []string `json:"skills"`
}

type CategoryBreakdownResponse struct {
	Category      string `json:"category"`
	TotalSkills   int    `json:"total_skills"`
	MatchedSkills int    `json:"matched_skills"`
	Percentage    int    `json:"percentage"`
}

type GapAnalysisResponse struct {
	Job             JobRoleResponse             `json:"job"`
	MatchPercentage int                         `json:"match_percentage"`
	GapPercentage   int                         `json:"gap_percentage"`
	MatchedSkills   []SkillResponse             `json:"matched_skills"`
	MissingSkills   []SkillResponse             `json:"missing_skills"`
	Categories      []CategoryBreakdownResponse `json:"categories"`
	SkillGaps       map[string]bool             `json:"skill_gaps"`
}

type RecommendedCourseResponse struct {
	CourseResponse
	Relevance     float64  `json:"relevance"`
	MatchedSkills []string `json:"matched_skills"`
}

type RecommendationsResponse struct {
	Job           JobRoleResponse             `json:"job"`
	MissingSkills []SkillResponse             `json:"missing_skills"`
	Level         string                      `json:"level"`
	Sort          string                      `json:"sort"`
	Courses       []RecommendedCourseResponse `json:"courses"`
	Total         int                         `json:"total"`
	EmptyMessage  string                      `json:"empty_message,omitempty"`
}
