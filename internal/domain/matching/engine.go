package matching

import (
	"math"

	"skill-bridge/internal/catalog"
)

type CategoryBreakdown struct {
	Category      string
	TotalSkills   int
	MatchedSkills int
	Percentage    int
}

type Result struct {
	MatchPercentage int
	GapPercentage   int
	MatchedSkills   []catalog.Skill
	MissingSkills   []catalog.Skill
	Categories      []CategoryBreakdown
}

// Calculate runs the whole gap analysis for one job role.
func Calculate(job catalog.JobRole, possessed []string) Result {
	have := toSet(possessed)

	matched := make([]catalog.Skill, 0, len(job.Skills))
	missing := make([]catalog.Skill, 0, len(job.Skills))
	for _, s := range job.Skills {
		if _, ok := have[s.ID]; ok {
			matched = append(matched, s)
			continue
		}
		missing = append(missing, s)
	}

	match := MatchPercentage(job.Skills, possessed)
	return Result{
		MatchPercentage: match,
		GapPercentage:   100 - match,
		MatchedSkills:   matched,
		MissingSkills:   missing,
		Categories:      Breakdown(job.Skills, possessed),
	}
}

// MatchPercentage is round(100 * matched / total). A role without skills
// counts as a full match.
func MatchPercentage(skills []catalog.Skill, possessed []string) int {
	if len(skills) == 0 {
		return 100
	}
	have := toSet(possessed)
	n := 0
	for _, s := range skills {
		if _, ok := have[s.ID]; ok {
			n++
		}
	}
	return percent(n, len(skills))
}

func GapPercentage(skills []catalog.Skill, possessed []string) int {
	return 100 - MatchPercentage(skills, possessed)
}

// Breakdown groups skills by category, keeping the order in which each
// category first appears in the skill list.
func Breakdown(skills []catalog.Skill, possessed []string) []CategoryBreakdown {
	have := toSet(possessed)

	idx := make(map[string]int)
	out := make([]CategoryBreakdown, 0)
	for _, s := range skills {
		i, ok := idx[s.Category]
		if !ok {
			i = len(out)
			idx[s.Category] = i
			out = append(out, CategoryBreakdown{Category: s.Category})
		}
		out[i].TotalSkills++
		if _, ok := have[s.ID]; ok {
			out[i].MatchedSkills++
		}
	}

	for i := range out {
		out[i].Percentage = percent(out[i].MatchedSkills, out[i].TotalSkills)
	}
	return out
}

// MissingSkills returns the role's skill ids the user does not have, in role
// order.
func MissingSkills(skills []catalog.Skill, possessed []string) []string {
	have := toSet(possessed)
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := have[s.ID]; ok {
			continue
		}
		out = append(out, s.ID)
	}
	return out
}

// GapMap maps every skill id of the role to whether the user has it.
func GapMap(skills []catalog.Skill, possessed []string) map[string]bool {
	have := toSet(possessed)
	out := make(map[string]bool, len(skills))
	for _, s := range skills {
		_, ok := have[s.ID]
		out[s.ID] = ok
	}
	return out
}

// PossessedFromGapMap recovers the possessed ids from a gap map in role order.
func PossessedFromGapMap(skills []catalog.Skill, gaps map[string]bool) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if gaps[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

func percent(n, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(n) / float64(total)))
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
