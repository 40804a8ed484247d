package repository

import (
	"context"
	"fmt"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/database"
)

type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

type PostgresCatalogRepository struct {
	db database.DB
}

func NewPostgresCatalogRepository(db database.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// LoadCatalog reads the mirrored reference tables in their stored order and
// validates them the same way the embedded catalog is validated.
func (r *PostgresCatalogRepository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	jobs, err := r.jobRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load job roles: %w", err)
	}
	courses, err := r.courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return catalog.New(jobs, courses)
}

func (r *PostgresCatalogRepository) jobRoles(ctx context.Context) ([]catalog.JobRole, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, category, description, icon FROM job_roles ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.JobRole, 0)
	idx := map[string]int{}
	for rows.Next() {
		var j catalog.JobRole
		if err := rows.Scan(&j.ID, &j.Title, &j.Category, &j.Description, &j.Icon); err != nil {
			return nil, err
		}
		idx[j.ID] = len(out)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := r.db.Query(ctx, `SELECT job_role_id, skill_id, name, category, importance FROM job_role_skills ORDER BY job_role_id ASC, position ASC`)
	if err != nil {
		return nil, err
	}
	defer srows.Close()

	for srows.Next() {
		var jobID string
		var s catalog.Skill
		if err := srows.Scan(&jobID, &s.ID, &s.Name, &s.Category, &s.Importance); err != nil {
			return nil, err
		}
		i, ok := idx[jobID]
		if !ok {
			continue
		}
		out[i].Skills = append(out[i].Skills, s)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) courses(ctx context.Context) ([]catalog.Course, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, provider, description, duration, level, rating, url, image FROM courses ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Course, 0)
	idx := map[string]int{}
	for rows.Next() {
		var c catalog.Course
		var level string
		if err := rows.Scan(&c.ID, &c.Title, &c.Provider, &c.Description, &c.Duration, &level, &c.Rating, &c.URL, &c.Image); err != nil {
			return nil, err
		}
		c.Level = catalog.Level(level)
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := r.db.Query(ctx, `SELECT course_id, skill_id FROM course_skills ORDER BY course_id ASC, position ASC`)
	if err != nil {
		return nil, err
	}
	defer srows.Close()

	for srows.Next() {
		var courseID, skillID string
		if err := srows.Scan(&courseID, &skillID); err != nil {
			return nil, err
		}
		if i, ok := idx[courseID]; ok {
			out[i].Skills = append(out[i].Skills, skillID)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
