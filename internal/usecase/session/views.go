package session

import (
	"context"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/domain/matching"
	"skill-bridge/internal/domain/navigation"
	"skill-bridge/internal/domain/presentation"
	state "skill-bridge/internal/domain/session"
)

type Step struct {
	View      navigation.View
	Path      string
	Completed bool
	Enabled   bool
}

type Dashboard struct {
	User            state.User
	SelectedJob     *catalog.JobRole
	HasSkills       bool
	HasGaps         bool
	MatchPercentage *int
	Steps           []Step
	Categories      []presentation.CategoryBlurb
}

type SkillGroup struct {
	Category string
	Skills   []AssessedSkill
}

type AssessedSkill struct {
	Skill    catalog.Skill
	Selected bool
}

type Assessment struct {
	Job    catalog.JobRole
	Groups []SkillGroup
}

type Analysis struct {
	Job    catalog.JobRole
	Result matching.Result
	Gaps   map[string]bool
}

type Recommendations struct {
	Job     catalog.JobRole
	Missing []catalog.Skill
	Options matching.RankOptions
	Courses []matching.RankedCourse
}

func (s *Service) Dashboard(ctx context.Context, sessionID string) (Dashboard, error) {
	st, err := s.guard(ctx, sessionID, navigation.ViewDashboard)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		User:      *st.User,
		HasSkills: st.HasSkills(),
		HasGaps:   st.HasGaps(),
	}

	var job *catalog.JobRole
	if st.HasJob() {
		if j, err := s.catalog.JobRole(st.SelectedJob); err == nil {
			job = &j
		}
	}
	out.SelectedJob = job

	gapsCurrent := job != nil && st.GapsCover(job.SkillIDs())
	if gapsCurrent {
		m := matching.MatchPercentage(job.Skills, matching.PossessedFromGapMap(job.Skills, st.Gaps))
		out.MatchPercentage = &m
	}

	jobID := ""
	if job != nil {
		jobID = job.ID
	}
	out.Steps = []Step{
		{View: navigation.ViewJobSelection, Path: navigation.ViewJobSelection.Path(""), Completed: job != nil, Enabled: true},
		{View: navigation.ViewSkillsAssessment, Path: navigation.ViewSkillsAssessment.Path(jobID), Completed: st.HasSkills(), Enabled: job != nil},
		{View: navigation.ViewGapAnalysis, Path: navigation.ViewGapAnalysis.Path(""), Completed: gapsCurrent, Enabled: job != nil && st.HasSkills()},
		{View: navigation.ViewRecommendations, Path: navigation.ViewRecommendations.Path(""), Enabled: gapsCurrent},
	}

	for _, c := range s.catalog.Categories() {
		out.Categories = append(out.Categories, presentation.DescribeCategory(c))
	}
	return out, nil
}

// SelectJob stores the job id. Saved skills survive a change of job; the gap
// map does not, since its keys belong to the previous role.
func (s *Service) SelectJob(ctx context.Context, sessionID, jobID string) (catalog.JobRole, error) {
	job, err := s.catalog.JobRole(jobID)
	if err != nil {
		return catalog.JobRole{}, ErrJobNotFound
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	st, err := s.guard(ctx, sessionID, navigation.ViewJobSelection)
	if err != nil {
		return catalog.JobRole{}, err
	}
	if st.SelectedJob == job.ID {
		return job, nil
	}

	st.SelectedJob = job.ID
	st.Gaps = nil
	if err := s.Save(ctx, sessionID, st); err != nil {
		return catalog.JobRole{}, err
	}
	s.notify(sessionID, EventJobSelected, map[string]string{"job_id": job.ID})
	return job, nil
}

// Assessment groups the selected role's skills by category in first-seen
// order and marks the ones already saved.
func (s *Service) Assessment(ctx context.Context, sessionID string) (Assessment, error) {
	st, err := s.guard(ctx, sessionID, navigation.ViewSkillsAssessment)
	if err != nil {
		return Assessment{}, err
	}
	job, err := s.selectedJob(st)
	if err != nil {
		return Assessment{}, err
	}

	have := make(map[string]struct{}, len(st.Skills))
	for _, id := range st.Skills {
		have[id] = struct{}{}
	}

	var groups []SkillGroup
	idx := map[string]int{}
	for _, sk := range job.Skills {
		i, ok := idx[sk.Category]
		if !ok {
			i = len(groups)
			idx[sk.Category] = i
			groups = append(groups, SkillGroup{Category: sk.Category})
		}
		_, selected := have[sk.ID]
		groups[i].Skills = append(groups[i].Skills, AssessedSkill{Skill: sk, Selected: selected})
	}

	return Assessment{Job: job, Groups: groups}, nil
}

// SubmitSkills saves the possessed skills together with the gap map computed
// for the selected role.
func (s *Service) SubmitSkills(ctx context.Context, sessionID string, skillIDs []string) (Analysis, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	st, err := s.guard(ctx, sessionID, navigation.ViewSkillsAssessment)
	if err != nil {
		return Analysis{}, err
	}
	job, err := s.selectedJob(st)
	if err != nil {
		return Analysis{}, err
	}

	skills := make([]string, 0, len(skillIDs))
	seen := map[string]struct{}{}
	for _, id := range skillIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		if !job.HasSkill(id) {
			return Analysis{}, ErrUnknownSkill
		}
		seen[id] = struct{}{}
		skills = append(skills, id)
	}
	if len(skills) == 0 {
		return Analysis{}, ErrNoSkillsSelected
	}

	st.Skills = skills
	st.Gaps = matching.GapMap(job.Skills, skills)
	if err := s.Save(ctx, sessionID, st); err != nil {
		return Analysis{}, err
	}
	s.notify(sessionID, EventSkillsSaved, map[string]any{"job_id": job.ID, "skills": skills})

	return Analysis{Job: job, Result: matching.Calculate(job, skills), Gaps: st.Gaps}, nil
}

func (s *Service) GapAnalysis(ctx context.Context, sessionID string) (Analysis, error) {
	st, err := s.guard(ctx, sessionID, navigation.ViewGapAnalysis)
	if err != nil {
		return Analysis{}, err
	}
	job, err := s.selectedJob(st)
	if err != nil {
		return Analysis{}, err
	}

	gaps := st.Gaps
	if !st.GapsCover(job.SkillIDs()) {
		gaps = matching.GapMap(job.Skills, st.Skills)
	}
	return Analysis{Job: job, Result: matching.Calculate(job, st.Skills), Gaps: gaps}, nil
}

func (s *Service) Recommendations(ctx context.Context, sessionID string, opts matching.RankOptions) (Recommendations, error) {
	st, err := s.guard(ctx, sessionID, navigation.ViewRecommendations)
	if err != nil {
		return Recommendations{}, err
	}
	job, err := s.selectedJob(st)
	if err != nil {
		return Recommendations{}, err
	}
	if opts.Level == "" {
		opts.Level = matching.LevelAll
	}
	if opts.Sort == "" {
		opts.Sort = matching.SortByRelevance
	}

	missingIDs := matching.MissingSkills(job.Skills, matching.PossessedFromGapMap(job.Skills, st.Gaps))
	missing := make([]catalog.Skill, 0, len(missingIDs))
	for _, id := range missingIDs {
		if sk, ok := job.Skill(id); ok {
			missing = append(missing, sk)
		}
	}

	return Recommendations{
		Job:     job,
		Missing: missing,
		Options: opts,
		Courses: matching.RankCourses(missingIDs, s.catalog.Courses(), job, opts),
	}, nil
}
