package dto

type SkillResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Importance int    `json:"importance"`
}

type JobRoleResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Skills      []SkillResponse `json:"skills"`
}

type CourseResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Provider    string   `json:"provider"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Level       string   `json:"level"`
	Skills      []string `json:"skills"`
	Rating      float64  `json:"rating"`
	Stars       []string `json:"stars"`
	URL         string   `json:"url"`
	Image       string   `json:"image,omitempty"`
}
