package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/database/seeder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d values, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *float64:
			*p = row[i].(float64)
		default:
			return fmt.Errorf("scan: unsupported %T", d)
		}
	}
	return nil
}

type fakeDB struct {
	tables map[string][][]any
	fail   error
}

func (f *fakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for _, table := range []string{"job_role_skills", "course_skills", "job_roles", "courses"} {
		if strings.Contains(query, "FROM "+table+" ") {
			return &fakeRows{data: f.tables[table]}, nil
		}
	}
	return nil, fmt.Errorf("unexpected query %q", query)
}

func (f *fakeDB) Ping(context.Context) error                 { return nil }
func (f *fakeDB) Close() error                               { return nil }
func (f *fakeDB) Begin(context.Context) (database.Tx, error) { return nil, errors.New("unsupported") }
func (f *fakeDB) SQLDB() *sql.DB                             { return nil }

func TestLoadCatalog(t *testing.T) {
	db := &fakeDB{tables: map[string][][]any{
		"job_roles": {
			{"cloud-architect", "Cloud Architect", "Cloud Computing", "Designs clouds", "cloud"},
		},
		"job_role_skills": {
			{"cloud-architect", "aws", "AWS", "Cloud", 10},
			{"cloud-architect", "azure", "Microsoft Azure", "Cloud", 9},
			{"ghost-role", "x", "X", "Y", 1},
		},
		"courses": {
			{"aws-101", "AWS 101", "Acme", "", "4 weeks", "Beginner", 4.5, "https://example.com/aws", ""},
		},
		"course_skills": {
			{"aws-101", "aws"},
			{"aws-101", "security"},
		},
	}}

	cat, err := NewPostgresCatalogRepository(db).LoadCatalog(context.Background())
	require.NoError(t, err)

	job, err := cat.JobRole("cloud-architect")
	require.NoError(t, err)
	assert.Equal(t, []string{"aws", "azure"}, job.SkillIDs())
	assert.Equal(t, 10, job.Skills[0].Importance)

	courses := cat.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, catalog.LevelBeginner, courses[0].Level)
	assert.Equal(t, []string{"aws", "security"}, courses[0].Skills)
}

func TestLoadCatalog_InvalidRows(t *testing.T) {
	db := &fakeDB{tables: map[string][][]any{
		"job_roles":       {{"r", "R", "C", "", ""}},
		"job_role_skills": {{"r", "s", "S", "C", 11}},
	}}
	_, err := NewPostgresCatalogRepository(db).LoadCatalog(context.Background())
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestLoadCatalog_QueryError(t *testing.T) {
	_, err := NewPostgresCatalogRepository(&fakeDB{fail: errors.New("down")}).LoadCatalog(context.Background())
	assert.ErrorContains(t, err, "load job roles")
}

func TestCatalogMirror_Integration(t *testing.T) {
	host := os.Getenv("SKILLBRIDGE_TEST_DB_HOST")
	if host == "" {
		t.Skip("missing SKILLBRIDGE_TEST_DB_HOST")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     os.Getenv("SKILLBRIDGE_TEST_DB_PORT"),
		DBName:     os.Getenv("SKILLBRIDGE_TEST_DB_NAME"),
		DBUser:     os.Getenv("SKILLBRIDGE_TEST_DB_USER"),
		DBPassword: os.Getenv("SKILLBRIDGE_TEST_DB_PASSWORD"),
	})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = migration.Runner{}.Run(ctx, db.SQLDB())
	require.NoError(t, err)

	want, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	require.NoError(t, seeder.Runner{Seeders: seeder.Defaults(want)}.Run(ctx, db))

	got, err := NewPostgresCatalogRepository(db).LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.JobRoles(), got.JobRoles())
	assert.Equal(t, want.Courses(), got.Courses())
}
