package catalog

import "strings"

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

// Skill is a competency required by a job role. IDs are scoped to the role
// that owns the skill.
type Skill struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Category   string `yaml:"category" json:"category"`
	Importance int    `yaml:"importance" json:"importance"`
}

type JobRole struct {
	ID          string  `yaml:"id" json:"id"`
	Title       string  `yaml:"title" json:"title"`
	Category    string  `yaml:"category" json:"category"`
	Description string  `yaml:"description" json:"description"`
	Icon        string  `yaml:"icon" json:"icon"`
	Skills      []Skill `yaml:"skills" json:"skills"`
}

func (j JobRole) SkillIDs() []string {
	out := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		out = append(out, s.ID)
	}
	return out
}

func (j JobRole) Skill(id string) (Skill, bool) {
	for _, s := range j.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

func (j JobRole) HasSkill(id string) bool {
	_, ok := j.Skill(id)
	return ok
}

// Matches reports whether term appears in the title, category or description,
// ignoring case. An empty term matches every role.
func (j JobRole) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Title), term) ||
		strings.Contains(strings.ToLower(j.Category), term) ||
		strings.Contains(strings.ToLower(j.Description), term)
}

type Course struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Provider    string   `yaml:"provider" json:"provider"`
	Description string   `yaml:"description" json:"description"`
	Duration    string   `yaml:"duration" json:"duration"`
	Level       Level    `yaml:"level" json:"level"`
	Skills      []string `yaml:"skills" json:"skills"`
	Rating      float64  `yaml:"rating" json:"rating"`
	URL         string   `yaml:"url" json:"url"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
}

func cloneJobRole(j JobRole) JobRole {
	j.Skills = append([]Skill(nil), j.Skills...)
	return j
}

func cloneCourse(c Course) Course {
	c.Skills = append([]string(nil), c.Skills...)
	return c
}
