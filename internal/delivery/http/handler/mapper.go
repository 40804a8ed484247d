package handler

import (
	"skill-bridge/internal/catalog"
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/navigation"
	"skill-bridge/internal/domain/presentation"
	"skill-bridge/internal/domain/rating"
	"skill-bridge/internal/domain/session"
)

func toUserResponse(u session.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toSkillResponse(s catalog.Skill) dto.SkillResponse {
	return dto.SkillResponse{ID: s.ID, Name: s.Name, Category: s.Category, Importance: s.Importance}
}

func toSkillResponses(skills []catalog.Skill) []dto.SkillResponse {
	out := make([]dto.SkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, toSkillResponse(s))
	}
	return out
}

// toJobRoleResponse reports the icon that is actually drawn, so unknown names
// come back as the fallback glyph.
func toJobRoleResponse(j catalog.JobRole) dto.JobRoleResponse {
	icon, _ := presentation.ParseIcon(j.Icon)
	return dto.JobRoleResponse{
		ID:          j.ID,
		Title:       j.Title,
		Category:    j.Category,
		Description: j.Description,
		Icon:        icon.String(),
		Skills:      toSkillResponses(j.Skills),
	}
}

func toCourseResponse(c catalog.Course) dto.CourseResponse {
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return dto.CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Provider:    c.Provider,
		Description: c.Description,
		Duration:    c.Duration,
		Level:       string(c.Level),
		Skills:      skills,
		Rating:      c.Rating,
		Stars:       rating.Strings(c.Rating),
		URL:         c.URL,
		Image:       c.Image,
	}
}

func toRecommendedCourseResponse(rc matching.RankedCourse) dto.RecommendedCourseResponse {
	return dto.RecommendedCourseResponse{
		CourseResponse: toCourseResponse(rc.Course),
		Relevance:      rc.Relevance,
		MatchedSkills:  rc.MatchedSkills,
	}
}

func toBreakdownResponses(items []matching.CategoryBreakdown) []dto.CategoryBreakdownResponse {
	out := make([]dto.CategoryBreakdownResponse, 0, len(items))
	for _, b := range items {
		out = append(out, dto.CategoryBreakdownResponse{
			Category:      b.Category,
			TotalSkills:   b.TotalSkills,
			MatchedSkills: b.MatchedSkills,
			Percentage:    b.Percentage,
		})
	}
	return out
}

func toRedirectResponse(d navigation.Decision) dto.RedirectResponse {
	return dto.RedirectResponse{
		Redirect: string(d.Redirect),
		Path:     d.Path,
		Notice:   dto.NoticeResponse{Title: d.Notice.Title, Description: d.Notice.Description},
	}
}
