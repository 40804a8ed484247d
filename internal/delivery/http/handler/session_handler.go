package handler

import (
	"context"
	"errors"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/navigation"
	"skill-bridge/internal/pkg/response"
	ucsession "skill-bridge/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
)

const (
	emptyRecommendationsMessage = "No courses found matching your criteria. Try adjusting your filters."
	nothingMissingMessage       = "You already have all the skills needed for this role. No further courses are recommended."
)

type SessionUsecase interface {
	Dashboard(ctx context.Context, sessionID string) (ucsession.Dashboard, error)
	SelectJob(ctx context.Context, sessionID, jobID string) (catalog.JobRole, error)
	Assessment(ctx context.Context, sessionID string) (ucsession.Assessment, error)
	SubmitSkills(ctx context.Context, sessionID string, skillIDs []string) (ucsession.Analysis, error)
	GapAnalysis(ctx context.Context, sessionID string) (ucsession.Analysis, error)
	Recommendations(ctx context.Context, sessionID string, opts matching.RankOptions) (ucsession.Recommendations, error)
}

// SessionRecorder counts redirects and served recommendations.
type SessionRecorder interface {
	Redirect(view, redirect string)
	RecommendationsServed(n int)
}

type SessionHandler struct {
	uc      SessionUsecase
	metrics SessionRecorder
}

func NewSessionHandler(uc SessionUsecase, metrics SessionRecorder) *SessionHandler {
	return &SessionHandler{uc: uc, metrics: metrics}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/dashboard", h.GetDashboard)
	r.Put("/job", h.SelectJob)
	r.Get("/assessment", h.GetAssessment)
	r.Put("/skills", h.SubmitSkills)
	r.Get("/gap-analysis", h.GetGapAnalysis)
	r.Get("/recommendations", h.GetRecommendations)
}

func (h *SessionHandler) GetDashboard(c fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.Context(), middleware.SessionID(c))
	if err != nil {
		return h.mapError(err)
	}

	out := dto.DashboardResponse{
		User:            toUserResponse(d.User),
		HasSkills:       d.HasSkills,
		HasGaps:         d.HasGaps,
		MatchPercentage: d.MatchPercentage,
		Steps:           make([]dto.StepResponse, 0, len(d.Steps)),
		Categories:      make([]dto.CategoryResponse, 0, len(d.Categories)),
	}
	if d.SelectedJob != nil {
		j := toJobRoleResponse(*d.SelectedJob)
		out.SelectedJob = &j
	}
	for _, s := range d.Steps {
		out.Steps = append(out.Steps, dto.StepResponse{
			View:      string(s.View),
			Path:      s.Path,
			Completed: s.Completed,
			Enabled:   s.Enabled,
		})
	}
	for _, b := range d.Categories {
		out.Categories = append(out.Categories, dto.CategoryResponse{Category: b.Category, Summary: b.Summary})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SessionHandler) SelectJob(c fiber.Ctx) error {
	var req dto.SelectJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	job, err := h.uc.SelectJob(c.Context(), middleware.SessionID(c), req.JobID)
	if err != nil {
		return h.mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toJobRoleResponse(job))
}

func (h *SessionHandler) GetAssessment(c fiber.Ctx) error {
	a, err := h.uc.Assessment(c.Context(), middleware.SessionID(c))
	if err != nil {
		return h.mapError(err)
	}

	out := dto.AssessmentResponse{
		Job:    toJobRoleResponse(a.Job),
		Groups: make([]dto.SkillGroupResponse, 0, len(a.Groups)),
	}
	for _, g := range a.Groups {
		grp := dto.SkillGroupResponse{
			Category: g.Category,
			Skills:   make([]dto.AssessedSkillResponse, 0, len(g.Skills)),
		}
		for _, s := range g.Skills {
			grp.Skills = append(grp.Skills, dto.AssessedSkillResponse{
				SkillResponse: toSkillResponse(s.Skill),
				Selected:      s.Selected,
			})
		}
		out.Groups = append(out.Groups, grp)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SessionHandler) SubmitSkills(c fiber.Ctx) error {
	var req dto.SubmitSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.SubmitSkills(c.Context(), middleware.SessionID(c), req.Skills)
	if err != nil {
		return h.mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toGapAnalysisResponse(a))
}

func (h *SessionHandler) GetGapAnalysis(c fiber.Ctx) error {
	a, err := h.uc.GapAnalysis(c.Context(), middleware.SessionID(c))
	if err != nil {
		return h.mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toGapAnalysisResponse(a))
}

// GetRecommendations takes level (all|beginner|intermediate|advanced) and
// sort (relevance|rating); anything else is a 400.
func (h *SessionHandler) GetRecommendations(c fiber.Ctx) error {
	level, err := matching.ParseLevelFilter(c.Query("level"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown level filter", nil, err)
	}
	sortKey, err := matching.ParseSortKey(c.Query("sort"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown sort key", nil, err)
	}

	rec, err := h.uc.Recommendations(c.Context(), middleware.SessionID(c), matching.RankOptions{Level: level, Sort: sortKey})
	if err != nil {
		return h.mapError(err)
	}

	out := dto.RecommendationsResponse{
		Job:           toJobRoleResponse(rec.Job),
		MissingSkills: toSkillResponses(rec.Missing),
		Level:         string(rec.Options.Level),
		Sort:          string(rec.Options.Sort),
		Courses:       make([]dto.RecommendedCourseResponse, 0, len(rec.Courses)),
		Total:         len(rec.Courses),
	}
	for _, rc := range rec.Courses {
		out.Courses = append(out.Courses, toRecommendedCourseResponse(rc))
	}
	switch {
	case len(rec.Missing) == 0:
		out.EmptyMessage = nothingMissingMessage
	case len(rec.Courses) == 0:
		out.EmptyMessage = emptyRecommendationsMessage
	}
	if h.metrics != nil {
		h.metrics.RecommendationsServed(len(rec.Courses))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toGapAnalysisResponse(a ucsession.Analysis) dto.GapAnalysisResponse {
	gaps := a.Gaps
	if gaps == nil {
		gaps = map[string]bool{}
	}
	return dto.GapAnalysisResponse{
		Job:             toJobRoleResponse(a.Job),
		MatchPercentage: a.Result.MatchPercentage,
		GapPercentage:   a.Result.GapPercentage,
		MatchedSkills:   toSkillResponses(a.Result.MatchedSkills),
		MissingSkills:   toSkillResponses(a.Result.MissingSkills),
		Categories:      toBreakdownResponses(a.Result.Categories),
		SkillGaps:       gaps,
	}
}

var noSkillsNotice = dto.NoticeResponse{
	Title:       "No skills selected",
	Description: "Please select at least one skill to continue",
}

func (h *SessionHandler) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pe *ucsession.PreconditionError
	if errors.As(err, &pe) {
		if h.metrics != nil {
			h.metrics.Redirect(string(pe.View), string(pe.Decision.Redirect))
		}
		return middleware.NewAppError(fiber.StatusConflict, pe.Decision.Notice.Title, toRedirectResponse(pe.Decision), err)
	}

	switch {
	case errors.Is(err, ucsession.ErrJobNotFound):
		d := navigation.Decision{
			Redirect: navigation.ViewJobSelection,
			Path:     navigation.ViewJobSelection.Path(""),
			Notice:   navigation.NoticeJobNotFound,
		}
		return middleware.NewAppError(fiber.StatusNotFound, d.Notice.Title, toRedirectResponse(d), err)
	case errors.Is(err, ucsession.ErrNoSkillsSelected):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, noSkillsNotice.Title, map[string]any{"notice": noSkillsNotice}, err)
	case errors.Is(err, ucsession.ErrUnknownSkill):
		return middleware.NewAppError(fiber.StatusBadRequest, "Skill does not belong to the selected job role", nil, err)
	case errors.Is(err, ucsession.ErrInvalidSession):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
