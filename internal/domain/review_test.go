package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullGrades() GradeSheet {
	return GradeSheet{
		CategoryPeople:  PointsUnique,
		CategoryAnimals: PointsNone,
		CategoryPlaces:  PointsShared,
		CategoryThings:  PointsUnique,
	}
}

func TestReviewRejectsSelfGrading(t *testing.T) {
	rs := NewReviewState([]string{"a", "b"})

	err := rs.SubmitGrades("a", "a", fullGrades())
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestReviewRejectsUnknownTarget(t *testing.T) {
	rs := NewReviewState([]string{"a", "b"})

	err := rs.SubmitGrades("a", "ghost", fullGrades())
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestReviewMarkReadyRequiresAllTargetsGraded(t *testing.T) {
	rs := NewReviewState([]string{"a", "b", "c"})

	assert.ErrorIs(t, rs.MarkReady("a"), ErrNotApplicable)

	require.NoError(t, rs.SubmitGrades("a", "b", fullGrades()))
	assert.ErrorIs(t, rs.MarkReady("a"), ErrNotApplicable)

	require.NoError(t, rs.SubmitGrades("a", "c", fullGrades()))
	assert.NoError(t, rs.MarkReady("a"))
	assert.Equal(t, 1, rs.ReadyCount())
}

func TestReviewRegradeAllowedUntilReady(t *testing.T) {
	rs := NewReviewState([]string{"a", "b"})

	require.NoError(t, rs.SubmitGrades("a", "b", GradeSheet{CategoryPeople: PointsNone}))
	require.NoError(t, rs.SubmitGrades("a", "b", GradeSheet{CategoryPeople: PointsUnique}))
	assert.Equal(t, PointsUnique, rs.Grades()["a"]["b"][CategoryPeople])

	require.NoError(t, rs.MarkReady("a"))
	assert.ErrorIs(t, rs.SubmitGrades("a", "b", fullGrades()), ErrNotApplicable)
}

func TestReviewAllReady(t *testing.T) {
	rs := NewReviewState([]string{"a", "b"})
	players := []string{"a", "b"}

	assert.False(t, rs.AllReady(players))

	require.NoError(t, rs.SubmitGrades("a", "b", fullGrades()))
	require.NoError(t, rs.SubmitGrades("b", "a", fullGrades()))
	require.NoError(t, rs.MarkReady("a"))
	assert.False(t, rs.AllReady(players))

	require.NoError(t, rs.MarkReady("b"))
	assert.True(t, rs.AllReady(players))
}

func TestReviewWithNoSubmittersIsTriviallyReady(t *testing.T) {
	// Nobody submitted answers, so there is nothing to grade
	rs := NewReviewState(nil)

	assert.True(t, rs.HasGradedAll("a"))
	assert.NoError(t, rs.MarkReady("a"))
}

func TestReviewSoleSubmitterHasNoTargets(t *testing.T) {
	rs := NewReviewState([]string{"a"})

	// a cannot grade themselves, so they are trivially done
	assert.True(t, rs.HasGradedAll("a"))
	assert.NoError(t, rs.MarkReady("a"))

	// b still owes a grade for a's answers
	assert.False(t, rs.HasGradedAll("b"))
	assert.ErrorIs(t, rs.MarkReady("b"), ErrNotApplicable)

	require.NoError(t, rs.SubmitGrades("b", "a", fullGrades()))
	assert.NoError(t, rs.MarkReady("b"))
}

func TestReviewRemovePlayerShrinksQuorum(t *testing.T) {
	rs := NewReviewState([]string{"a", "b", "c"})

	require.NoError(t, rs.SubmitGrades("a", "b", fullGrades()))
	require.NoError(t, rs.SubmitGrades("b", "a", fullGrades()))

	// a and b still owe grades for c
	assert.False(t, rs.HasGradedAll("a"))
	assert.False(t, rs.HasGradedAll("b"))

	rs.RemovePlayer("c")

	assert.NoError(t, rs.MarkReady("a"))
	assert.NoError(t, rs.MarkReady("b"))
	assert.True(t, rs.AllReady([]string{"a", "b"}))
}
