package handler

import (
	"errors"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const emptyJobSearchMessage = "No job roles match your search criteria"

// CatalogReader is the read side of the reference tables.
type CatalogReader interface {
	JobRole(id string) (catalog.JobRole, error)
	SearchJobRoles(term string) []catalog.JobRole
	Courses() []catalog.Course
}

type CatalogHandler struct {
	catalog CatalogReader
}

func NewCatalogHandler(c CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.ListJobRoles)
	r.Get("/jobs/:id", h.GetJobRole)
	r.Get("/courses", h.ListCourses)
}

// ListJobRoles filters on the q query parameter.
func (h *CatalogHandler) ListJobRoles(c fiber.Ctx) error {
	jobs := h.catalog.SearchJobRoles(c.Query("q"))

	out := make([]dto.JobRoleResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobRoleResponse(j))
	}
	return response.List(c, out, len(out), emptyJobSearchMessage)
}

func (h *CatalogHandler) GetJobRole(c fiber.Ctx) error {
	job, err := h.catalog.JobRole(c.Params("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job role not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toJobRoleResponse(job))
}

func (h *CatalogHandler) ListCourses(c fiber.Ctx) error {
	courses := h.catalog.Courses()

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, co := range courses {
		out = append(out, toCourseResponse(co))
	}
	return response.List(c, out, len(out), "")
}
