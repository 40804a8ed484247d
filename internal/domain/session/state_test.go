package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireFormat(t *testing.T) {
	values, unset, err := Encode(State{
		User:        &User{ID: "1", Email: "ada@example.com", Name: "ada"},
		SelectedJob: "cloud-architect",
		Skills:      []string{"aws"},
		Gaps:        map[string]bool{"aws": true, "azure": false},
	})
	require.NoError(t, err)
	assert.Empty(t, unset)

	assert.JSONEq(t, `{"id":"1","email":"ada@example.com","name":"ada"}`, values[KeyUser])
	assert.Equal(t, "cloud-architect", values[KeySelectedJob])
	assert.JSONEq(t, `["aws"]`, values[KeyUserSkills])
	assert.JSONEq(t, `{"aws":true,"azure":false}`, values[KeySkillGaps])
}

func TestEncode_UnsetSteps(t *testing.T) {
	values, unset, err := Encode(State{User: &User{ID: "1"}})
	require.NoError(t, err)
	assert.Len(t, values, 1)
	assert.Equal(t, []string{KeySelectedJob, KeyUserSkills, KeySkillGaps}, unset)
}

func TestDecode_RoundTripKeepsEmptySkills(t *testing.T) {
	values, _, err := Encode(State{User: &User{ID: "1"}, SelectedJob: "x", Skills: []string{}})
	require.NoError(t, err)

	st, err := Decode(values)
	require.NoError(t, err)
	assert.True(t, st.HasSkills())
	assert.False(t, st.HasGaps())
	assert.Empty(t, st.Skills)
}

func TestDecode_CorruptValue(t *testing.T) {
	st, err := Decode(map[string]string{
		KeyUser:        `{"id":"1","email":"a@b.c","name":"a"}`,
		KeySelectedJob: "cloud-architect",
		KeyUserSkills:  `not json`,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptValue))
	assert.True(t, st.Authenticated())
	assert.Equal(t, "cloud-architect", st.SelectedJob)
	assert.False(t, st.HasSkills())
}

func TestState_GapsCover(t *testing.T) {
	st := State{Gaps: map[string]bool{"a": true, "b": false}}
	assert.True(t, st.GapsCover([]string{"b", "a"}))
	assert.False(t, st.GapsCover([]string{"a"}))
	assert.False(t, st.GapsCover([]string{"a", "c"}))
	assert.False(t, State{}.GapsCover(nil))
}
