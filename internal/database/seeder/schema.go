package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"skill-bridge/internal/database"
)

// ErrSchemaMismatch means the catalog tables are missing or out of date.
// Running the migrations fixes it.
var ErrSchemaMismatch = errors.New("catalog schema mismatch")

// catalogSchema lists the columns the catalog mirror writes, per table.
var catalogSchema = map[string][]string{
	"job_roles":       {"id", "position", "title", "category", "description", "icon"},
	"job_role_skills": {"job_role_id", "skill_id", "position", "name", "category", "importance"},
	"courses":         {"id", "position", "title", "provider", "description", "duration", "level", "rating", "url", "image"},
	"course_skills":   {"course_id", "position", "skill_id"},
}

// checkSchema reports every missing column in one error instead of failing
// on the first.
func checkSchema(ctx context.Context, db database.DB, schema map[string][]string) error {
	if db == nil {
		return errors.New("nil db")
	}
	tables := make([]string, 0, len(schema))
	for t := range schema {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	rows, err := db.Query(ctx, `
SELECT table_name, column_name
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = ANY($1)`, tables)
	if err != nil {
		return fmt.Errorf("read catalog schema: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return err
		}
		existing[table+"."+column] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, t := range tables {
		for _, c := range schema[t] {
			if !existing[t+"."+c] {
				missing = append(missing, t+"."+c)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
