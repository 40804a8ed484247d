package matching

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"skill-bridge/internal/catalog"
)

func loadCloudArchitect(t *testing.T) (catalog.JobRole, []catalog.Course) {
	t.Helper()

	c, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	j, err := c.JobRole("cloud-architect")
	if err != nil {
		t.Fatalf("job role: %v", err)
	}
	return j, c.Courses()
}

func courseIDs(items []RankedCourse) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Course.ID)
	}
	return out
}

func TestRankCourses_RelevanceExample(t *testing.T) {
	job := catalog.JobRole{ID: "cloud", Skills: cloudSkills()}
	courses := []catalog.Course{{
		ID:     "azure-sec",
		Level:  catalog.LevelBeginner,
		Skills: []string{"azure", "security"},
		Rating: 4.7,
	}}

	got := RankCourses([]string{"azure", "security"}, courses, job, RankOptions{})
	if len(got) != 1 {
		t.Fatalf("expected 1 course, got %d", len(got))
	}
	if math.Abs(got[0].Relevance-3.9) > 1e-9 {
		t.Fatalf("expected relevance 3.9, got %v", got[0].Relevance)
	}
	if !reflect.DeepEqual(got[0].MatchedSkills, []string{"azure", "security"}) {
		t.Fatalf("unexpected matched skills: %v", got[0].MatchedSkills)
	}
}

func TestRankCourses_UnknownSkillAddsNoImportance(t *testing.T) {
	job := catalog.JobRole{ID: "cloud", Skills: cloudSkills()}
	courses := []catalog.Course{{ID: "c", Level: catalog.LevelAdvanced, Skills: []string{"azure", "quantum"}, Rating: 3}}

	got := RankCourses([]string{"azure", "quantum"}, courses, job, RankOptions{})
	if len(got) != 1 {
		t.Fatalf("expected 1 course, got %d", len(got))
	}
	if math.Abs(got[0].Relevance-2.9) > 1e-9 {
		t.Fatalf("expected relevance 2.9, got %v", got[0].Relevance)
	}
}

func TestRankCourses_DuplicateCourseSkillCountsOnce(t *testing.T) {
	job := catalog.JobRole{ID: "cloud", Skills: cloudSkills()}
	courses := []catalog.Course{{ID: "c", Level: catalog.LevelAdvanced, Skills: []string{"aws", "aws"}, Rating: 3}}

	got := RankCourses([]string{"aws"}, courses, job, RankOptions{})
	if math.Abs(got[0].Relevance-2.0) > 1e-9 {
		t.Fatalf("expected relevance 2.0, got %v", got[0].Relevance)
	}
}

func TestRankCourses_CloudArchitect(t *testing.T) {
	job, courses := loadCloudArchitect(t)
	missing := MissingSkills(job.Skills, []string{"aws"})

	byRelevance := RankCourses(missing, courses, job, RankOptions{Level: LevelAll, Sort: SortByRelevance})
	want := []string{
		"gcp-professional-cloud-architect",
		"docker-kubernetes-complete-guide",
		"aws-certified-solutions-architect",
		"azure-fundamentals",
		"terraform-associate-certification",
	}
	if got := courseIDs(byRelevance); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected relevance order:\n got %v\nwant %v", got, want)
	}

	byRating := RankCourses(missing, courses, job, RankOptions{Sort: SortByRating})
	want = []string{
		"aws-certified-solutions-architect",
		"azure-fundamentals",
		"docker-kubernetes-complete-guide",
		"gcp-professional-cloud-architect",
		"terraform-associate-certification",
	}
	if got := courseIDs(byRating); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rating order:\n got %v\nwant %v", got, want)
	}
}

func TestRankCourses_LevelFilter(t *testing.T) {
	job, courses := loadCloudArchitect(t)
	missing := MissingSkills(job.Skills, []string{"aws"})

	got := RankCourses(missing, courses, job, RankOptions{Level: LevelIntermediate})
	want := []string{
		"docker-kubernetes-complete-guide",
		"aws-certified-solutions-architect",
		"terraform-associate-certification",
	}
	if ids := courseIDs(got); !reflect.DeepEqual(ids, want) {
		t.Fatalf("unexpected filtered order:\n got %v\nwant %v", ids, want)
	}

	if got := RankCourses(missing, courses, job, RankOptions{Level: LevelBeginner}); len(got) != 1 {
		t.Fatalf("expected 1 beginner course, got %d", len(got))
	}
}

func TestRankCourses_ResortIsReproducible(t *testing.T) {
	job, courses := loadCloudArchitect(t)
	missing := MissingSkills(job.Skills, nil)

	first := RankCourses(missing, courses, job, RankOptions{Sort: SortByRelevance})
	_ = RankCourses(missing, courses, job, RankOptions{Sort: SortByRating})
	again := RankCourses(missing, courses, job, RankOptions{Sort: SortByRelevance})

	if !reflect.DeepEqual(courseIDs(first), courseIDs(again)) {
		t.Fatalf("re-sort changed order:\n%v\n%v", courseIDs(first), courseIDs(again))
	}
}

func TestRankCourses_DoesNotMutateInputs(t *testing.T) {
	job, courses := loadCloudArchitect(t)
	before := make([]string, 0, len(courses))
	for _, c := range courses {
		before = append(before, c.ID)
	}

	got := RankCourses(job.SkillIDs(), courses, job, RankOptions{Sort: SortByRating})
	got[0].Course.Skills[0] = "mutated"

	for i, c := range courses {
		if c.ID != before[i] {
			t.Fatalf("course order mutated at %d", i)
		}
		if c.Skills[0] == "mutated" {
			t.Fatalf("course skills aliased into result")
		}
	}
}

func TestRankCourses_Empty(t *testing.T) {
	job, courses := loadCloudArchitect(t)

	if got := RankCourses(nil, courses, job, RankOptions{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
	if got := RankCourses([]string{"no-such-skill"}, courses, job, RankOptions{}); len(got) != 0 {
		t.Fatalf("expected no courses, got %d", len(got))
	}
}

func TestParseLevelFilterAndSortKey(t *testing.T) {
	if l, err := ParseLevelFilter(" Advanced "); err != nil || l != LevelAdvanced {
		t.Fatalf("unexpected level: %v %v", l, err)
	}
	if l, err := ParseLevelFilter(""); err != nil || l != LevelAll {
		t.Fatalf("unexpected default level: %v %v", l, err)
	}
	if _, err := ParseLevelFilter("expert"); !errors.Is(err, ErrUnknownLevelFilter) {
		t.Fatalf("expected ErrUnknownLevelFilter, got %v", err)
	}

	if s, err := ParseSortKey("RATING"); err != nil || s != SortByRating {
		t.Fatalf("unexpected sort: %v %v", s, err)
	}
	if s, err := ParseSortKey(""); err != nil || s != SortByRelevance {
		t.Fatalf("unexpected default sort: %v %v", s, err)
	}
	if _, err := ParseSortKey("price"); !errors.Is(err, ErrUnknownSortKey) {
		t.Fatalf("expected ErrUnknownSortKey, got %v", err)
	}
}
