package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrJobNotFound    = errors.New("job role not found")
)

// Catalog holds the reference tables. It is built once and never mutated;
// every accessor hands out copies.
type Catalog struct {
	jobs    []JobRole
	courses []Course
	jobIdx  map[string]int
}

type jobRolesFile struct {
	JobRoles []JobRole `yaml:"job_roles"`
}

type coursesFile struct {
	Courses []Course `yaml:"courses"`
}

func New(jobs []JobRole, courses []Course) (*Catalog, error) {
	if err := validate(jobs, courses); err != nil {
		return nil, err
	}

	c := &Catalog{
		jobs:    make([]JobRole, 0, len(jobs)),
		courses: make([]Course, 0, len(courses)),
		jobIdx:  make(map[string]int, len(jobs)),
	}
	for i, j := range jobs {
		c.jobs = append(c.jobs, cloneJobRole(j))
		c.jobIdx[j.ID] = i
	}
	for _, co := range courses {
		c.courses = append(c.courses, cloneCourse(co))
	}
	return c, nil
}

// LoadEmbedded builds the catalog shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	jb, err := embedded.ReadFile("data/job_roles.yaml")
	if err != nil {
		return nil, err
	}
	cb, err := embedded.ReadFile("data/courses.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(jb, cb)
}

// LoadDir reads job_roles.yaml and courses.yaml from dir.
func LoadDir(dir string) (*Catalog, error) {
	jb, err := os.ReadFile(filepath.Join(dir, "job_roles.yaml"))
	if err != nil {
		return nil, err
	}
	cb, err := os.ReadFile(filepath.Join(dir, "courses.yaml"))
	if err != nil {
		return nil, err
	}
	return Parse(jb, cb)
}

func Parse(jobRolesYAML, coursesYAML []byte) (*Catalog, error) {
	var jf jobRolesFile
	if err := yaml.Unmarshal(jobRolesYAML, &jf); err != nil {
		return nil, fmt.Errorf("%w: job roles: %v", ErrInvalidCatalog, err)
	}
	var cf coursesFile
	if err := yaml.Unmarshal(coursesYAML, &cf); err != nil {
		return nil, fmt.Errorf("%w: courses: %v", ErrInvalidCatalog, err)
	}
	return New(jf.JobRoles, cf.Courses)
}

func (c *Catalog) JobRoles() []JobRole {
	out := make([]JobRole, 0, len(c.jobs))
	for _, j := range c.jobs {
		out = append(out, cloneJobRole(j))
	}
	return out
}

func (c *Catalog) JobRole(id string) (JobRole, error) {
	i, ok := c.jobIdx[strings.TrimSpace(id)]
	if !ok {
		return JobRole{}, ErrJobNotFound
	}
	return cloneJobRole(c.jobs[i]), nil
}

func (c *Catalog) SearchJobRoles(term string) []JobRole {
	out := make([]JobRole, 0, len(c.jobs))
	for _, j := range c.jobs {
		if j.Matches(term) {
			out = append(out, cloneJobRole(j))
		}
	}
	return out
}

// Categories returns the distinct job role categories in table order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c.jobs))
	out := make([]string, 0, len(c.jobs))
	for _, j := range c.jobs {
		if _, ok := seen[j.Category]; ok {
			continue
		}
		seen[j.Category] = struct{}{}
		out = append(out, j.Category)
	}
	return out
}

func (c *Catalog) Courses() []Course {
	out := make([]Course, 0, len(c.courses))
	for _, co := range c.courses {
		out = append(out, cloneCourse(co))
	}
	return out
}

// OrphanCourseSkills lists course skill ids that no job role declares. Such
// ids can never be recommended because joins are by plain string equality.
func (c *Catalog) OrphanCourseSkills() []string {
	known := map[string]struct{}{}
	for _, j := range c.jobs {
		for _, s := range j.Skills {
			known[s.ID] = struct{}{}
		}
	}

	orphans := map[string]struct{}{}
	for _, co := range c.courses {
		for _, id := range co.Skills {
			if _, ok := known[id]; !ok {
				orphans[id] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(orphans))
	for id := range orphans {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func validate(jobs []JobRole, courses []Course) error {
	var problems []string

	jobIDs := make(map[string]struct{}, len(jobs))
	for i, j := range jobs {
		if strings.TrimSpace(j.ID) == "" {
			problems = append(problems, fmt.Sprintf("job_roles[%d]: empty id", i))
			continue
		}
		if _, dup := jobIDs[j.ID]; dup {
			problems = append(problems, fmt.Sprintf("job role %s: duplicate id", j.ID))
		}
		jobIDs[j.ID] = struct{}{}

		skillIDs := make(map[string]struct{}, len(j.Skills))
		for _, s := range j.Skills {
			if strings.TrimSpace(s.ID) == "" {
				problems = append(problems, fmt.Sprintf("job role %s: skill with empty id", j.ID))
				continue
			}
			if _, dup := skillIDs[s.ID]; dup {
				problems = append(problems, fmt.Sprintf("job role %s: duplicate skill %s", j.ID, s.ID))
			}
			skillIDs[s.ID] = struct{}{}
			if s.Importance < 1 || s.Importance > 10 {
				problems = append(problems, fmt.Sprintf("job role %s: skill %s importance %d out of range", j.ID, s.ID, s.Importance))
			}
		}
	}

	courseIDs := make(map[string]struct{}, len(courses))
	for i, co := range courses {
		if strings.TrimSpace(co.ID) == "" {
			problems = append(problems, fmt.Sprintf("courses[%d]: empty id", i))
			continue
		}
		if _, dup := courseIDs[co.ID]; dup {
			problems = append(problems, fmt.Sprintf("course %s: duplicate id", co.ID))
		}
		courseIDs[co.ID] = struct{}{}
		if !co.Level.Valid() {
			problems = append(problems, fmt.Sprintf("course %s: unknown level %q", co.ID, co.Level))
		}
		if co.Rating < 1 || co.Rating > 5 {
			problems = append(problems, fmt.Sprintf("course %s: rating %.1f out of range", co.ID, co.Rating))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}
