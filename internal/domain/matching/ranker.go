package matching

import (
	"errors"
	"sort"
	"strings"

	"skill-bridge/internal/catalog"
)

type LevelFilter string

const (
	LevelAll          LevelFilter = "all"
	LevelBeginner     LevelFilter = "beginner"
	LevelIntermediate LevelFilter = "intermediate"
	LevelAdvanced     LevelFilter = "advanced"
)

type SortKey string

const (
	SortByRelevance SortKey = "relevance"
	SortByRating    SortKey = "rating"
)

var (
	ErrUnknownLevelFilter = errors.New("unknown level filter")
	ErrUnknownSortKey     = errors.New("unknown sort key")
)

// ParseLevelFilter accepts the filter names case-insensitively; empty means all.
func ParseLevelFilter(s string) (LevelFilter, error) {
	switch LevelFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelAll:
		return LevelAll, nil
	case LevelBeginner:
		return LevelBeginner, nil
	case LevelIntermediate:
		return LevelIntermediate, nil
	case LevelAdvanced:
		return LevelAdvanced, nil
	default:
		return "", ErrUnknownLevelFilter
	}
}

// ParseSortKey accepts the sort key case-insensitively; empty means relevance.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByRelevance:
		return SortByRelevance, nil
	case SortByRating:
		return SortByRating, nil
	default:
		return "", ErrUnknownSortKey
	}
}

type RankOptions struct {
	Level LevelFilter
	Sort  SortKey
}

type RankedCourse struct {
	Course        catalog.Course
	Relevance     float64
	MatchedSkills []string
}

// RankCourses scores every course that teaches at least one missing skill.
// Relevance is the number of missing skills a course covers plus importance/10
// for each covered skill the job role declares. Equal scores keep the course
// table order. Inputs are never modified.
func RankCourses(missing []string, courses []catalog.Course, job catalog.JobRole, opts RankOptions) []RankedCourse {
	if len(missing) == 0 || len(courses) == 0 {
		return []RankedCourse{}
	}

	level := opts.Level
	if level == "" {
		level = LevelAll
	}
	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = SortByRelevance
	}

	want := toSet(missing)
	out := make([]RankedCourse, 0, len(courses))
	for _, co := range courses {
		hits := overlap(co.Skills, want)
		if len(hits) == 0 {
			continue
		}
		if level != LevelAll && !strings.EqualFold(string(co.Level), string(level)) {
			continue
		}

		score := float64(len(hits))
		for _, id := range hits {
			if s, ok := job.Skill(id); ok {
				score += float64(s.Importance) / 10
			}
		}

		out = append(out, RankedCourse{
			Course:        cloneCourse(co),
			Relevance:     score,
			MatchedSkills: hits,
		})
	}

	sortRanked(out, sortBy)
	return out
}

// sortRanked orders ranked courses in place, descending by the key. The sort
// is stable so ties keep their current relative order.
func sortRanked(items []RankedCourse, key SortKey) {
	switch key {
	case SortByRating:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Course.Rating > items[j].Course.Rating
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Relevance > items[j].Relevance
		})
	}
}

func overlap(ids []string, want map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := want[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneCourse(c catalog.Course) catalog.Course {
	c.Skills = append([]string(nil), c.Skills...)
	return c
}
