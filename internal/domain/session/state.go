package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Persisted keys. They are written and cleared together for one session.
const (
	KeyUser        = "skillbridge_user"
	KeySelectedJob = "selected_job"
	KeyUserSkills  = "user_skills"
	KeySkillGaps   = "skill_gaps"
)

var ErrCorruptValue = errors.New("corrupt session value")

// Keys lists every persisted key in a fixed order.
func Keys() []string {
	return []string{KeyUser, KeySelectedJob, KeyUserSkills, KeySkillGaps}
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// State is the per-session progress. A nil Skills or Gaps means the step has
// not happened yet, which is different from an empty value.
type State struct {
	User        *User
	SelectedJob string
	Skills      []string
	Gaps        map[string]bool
}

func (s State) Authenticated() bool { return s.User != nil }
func (s State) HasJob() bool        { return s.SelectedJob != "" }
func (s State) HasSkills() bool     { return s.Skills != nil }
func (s State) HasGaps() bool       { return s.Gaps != nil }

// GapsCover reports whether the gap map has exactly the given skill ids as
// keys.
func (s State) GapsCover(skillIDs []string) bool {
	if s.Gaps == nil || len(s.Gaps) != len(skillIDs) {
		return false
	}
	for _, id := range skillIDs {
		if _, ok := s.Gaps[id]; !ok {
			return false
		}
	}
	return true
}

// Encode turns the state into key/value pairs. Keys whose step has not
// happened are returned in unset so callers can delete them.
func Encode(s State) (values map[string]string, unset []string, err error) {
	values = map[string]string{}

	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return nil, nil, err
		}
		values[KeyUser] = string(b)
	} else {
		unset = append(unset, KeyUser)
	}

	if s.SelectedJob != "" {
		values[KeySelectedJob] = s.SelectedJob
	} else {
		unset = append(unset, KeySelectedJob)
	}

	if s.Skills != nil {
		b, err := json.Marshal(s.Skills)
		if err != nil {
			return nil, nil, err
		}
		values[KeyUserSkills] = string(b)
	} else {
		unset = append(unset, KeyUserSkills)
	}

	if s.Gaps != nil {
		b, err := json.Marshal(s.Gaps)
		if err != nil {
			return nil, nil, err
		}
		values[KeySkillGaps] = string(b)
	} else {
		unset = append(unset, KeySkillGaps)
	}

	return values, unset, nil
}

// Decode rebuilds the state from stored values. A value that does not parse
// is dropped and reported through an error wrapping ErrCorruptValue; the rest
// of the state is still returned.
func Decode(values map[string]string) (State, error) {
	var st State
	var bad []string

	if raw, ok := values[KeyUser]; ok && raw != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			bad = append(bad, KeyUser)
		} else {
			st.User = &u
		}
	}

	if raw, ok := values[KeySelectedJob]; ok {
		st.SelectedJob = strings.TrimSpace(raw)
	}

	if raw, ok := values[KeyUserSkills]; ok && raw != "" {
		var skills []string
		if err := json.Unmarshal([]byte(raw), &skills); err != nil {
			bad = append(bad, KeyUserSkills)
		} else {
			if skills == nil {
				skills = []string{}
			}
			st.Skills = skills
		}
	}

	if raw, ok := values[KeySkillGaps]; ok && raw != "" {
		var gaps map[string]bool
		if err := json.Unmarshal([]byte(raw), &gaps); err != nil {
			bad = append(bad, KeySkillGaps)
		} else {
			if gaps == nil {
				gaps = map[string]bool{}
			}
			st.Gaps = gaps
		}
	}

	if len(bad) > 0 {
		return st, fmt.Errorf("%w: %s", ErrCorruptValue, strings.Join(bad, ", "))
	}
	return st, nil
}
