package seeder

import (
	"context"
	"errors"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/database"
)

// CatalogSeeder mirrors the reference tables into Postgres. Rows that are no
// longer in the catalog are removed, so the mirror matches it exactly.
type CatalogSeeder struct {
	Catalog *catalog.Catalog
}

func (CatalogSeeder) Name() string { return "catalog" }

func (s CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Catalog == nil {
		return errors.New("nil catalog")
	}
	if err := checkSchema(ctx, db, catalogSchema); err != nil {
		return err
	}

	jobs := s.Catalog.JobRoles()
	courses := s.Catalog.Courses()

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		jobIDs := make([]string, 0, len(jobs))
		for i, j := range jobs {
			jobIDs = append(jobIDs, j.ID)
			if _, err := tx.Exec(ctx, `
INSERT INTO job_roles (id, position, title, category, description, icon)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	position = EXCLUDED.position,
	title = EXCLUDED.title,
	category = EXCLUDED.category,
	description = EXCLUDED.description,
	icon = EXCLUDED.icon`,
				j.ID, i, j.Title, j.Category, j.Description, j.Icon,
			); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM job_role_skills WHERE job_role_id = $1`, j.ID); err != nil {
				return err
			}
			for k, sk := range j.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO job_role_skills (job_role_id, skill_id, position, name, category, importance) VALUES ($1, $2, $3, $4, $5, $6)`,
					j.ID, sk.ID, k, sk.Name, sk.Category, sk.Importance,
				); err != nil {
					return err
				}
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM job_roles WHERE NOT (id = ANY($1))`, jobIDs); err != nil {
			return err
		}

		courseIDs := make([]string, 0, len(courses))
		for i, c := range courses {
			courseIDs = append(courseIDs, c.ID)
			if _, err := tx.Exec(ctx, `
INSERT INTO courses (id, position, title, provider, description, duration, level, rating, url, image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	position = EXCLUDED.position,
	title = EXCLUDED.title,
	provider = EXCLUDED.provider,
	description = EXCLUDED.description,
	duration = EXCLUDED.duration,
	level = EXCLUDED.level,
	rating = EXCLUDED.rating,
	url = EXCLUDED.url,
	image = EXCLUDED.image`,
				c.ID, i, c.Title, c.Provider, c.Description, c.Duration, string(c.Level), c.Rating, c.URL, c.Image,
			); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM course_skills WHERE course_id = $1`, c.ID); err != nil {
				return err
			}
			for k, id := range c.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO course_skills (course_id, position, skill_id) VALUES ($1, $2, $3)`,
					c.ID, k, id,
				); err != nil {
					return err
				}
			}
		}
		if _, err := tx.Exec(ctx, `DELETE FROM courses WHERE NOT (id = ANY($1))`, courseIDs); err != nil {
			return err
		}
		return nil
	})
}
