package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, playerIDs ...string) *Room {
	t.Helper()
	room := NewRoom("ABC123", DefaultSettings(), time.Now())
	for i, id := range playerIDs {
		_, err := room.AddPlayer(id, "Player"+id, time.Now().Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	return room
}

func startRound(t *testing.T, room *Room, letter string) {
	t.Helper()
	require.NoError(t, room.Start())
	began, err := room.BeginRound()
	require.NoError(t, err)
	require.True(t, began)
	require.NoError(t, room.SelectLetter(letter, time.Now()))
}

func TestRoomHostIsFirstJoiner(t *testing.T) {
	room := newTestRoom(t, "a", "b", "c")
	assert.Equal(t, "a", room.HostID())

	require.NoError(t, room.RemovePlayer("a"))
	assert.Equal(t, "b", room.HostID())
}

func TestRoomStartRequiresTwoPlayers(t *testing.T) {
	room := newTestRoom(t, "a")

	err := room.Start()
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
	assert.Equal(t, StatusWaiting, room.Status)
}

func TestRoomStartOnlyFromWaiting(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	require.NoError(t, room.Start())

	assert.ErrorIs(t, room.Start(), ErrNotApplicable)
}

func TestRoomJoinRejectedWhileInProgress(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	startRound(t, room, "B")

	_, err := room.AddPlayer("c", "Carol", time.Now())
	assert.ErrorIs(t, err, ErrGameInProgress)
	assert.Len(t, room.Players, 2)
}

func TestRoomJoinAllowedAfterFinished(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	room.Status = StatusFinished

	_, err := room.AddPlayer("c", "Carol", time.Now())
	assert.NoError(t, err)
}

func TestRoomSelectLetterFirstWins(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	require.NoError(t, room.Start())
	_, err := room.BeginRound()
	require.NoError(t, err)

	require.NoError(t, room.SelectLetter("B", time.Now()))
	assert.Equal(t, "B", room.SelectedLetter)
	assert.Equal(t, []string{"B"}, room.UsedLetters)

	err = room.SelectLetter("C", time.Now())
	assert.ErrorIs(t, err, ErrLetterAlreadySelected)
	assert.Equal(t, []string{"B"}, room.UsedLetters)
}

func TestRoomSelectLetterRejectsUsed(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	startRound(t, room, "B")

	// Play the round out and open the next one
	_, err := room.FinishRound()
	require.NoError(t, err)
	began, err := room.BeginRound()
	require.NoError(t, err)
	require.True(t, began)

	err = room.SelectLetter("B", time.Now())
	assert.ErrorIs(t, err, ErrLetterAlreadyUsed)
	assert.Equal(t, []string{"B"}, room.UsedLetters)
}

func TestRoomSelectLetterNotApplicableInOtherStates(t *testing.T) {
	room := newTestRoom(t, "a", "b")

	assert.ErrorIs(t, room.SelectLetter("B", time.Now()), ErrNotApplicable)

	startRound(t, room, "B")
	_, err := room.FinishRound()
	require.NoError(t, err)

	assert.ErrorIs(t, room.SelectLetter("C", time.Now()), ErrNotApplicable)
}

func TestRoomSubmitAnswersOverwrites(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	startRound(t, room, "B")

	require.NoError(t, room.SubmitAnswers("a", AnswerSheet{People: "Bill"}))
	require.NoError(t, room.SubmitAnswers("a", AnswerSheet{People: "Bob"}))

	assert.Equal(t, "Bob", room.Answers["a"].People)
	assert.False(t, room.AllSubmitted())

	require.NoError(t, room.SubmitAnswers("b", AnswerSheet{People: "Ben"}))
	assert.True(t, room.AllSubmitted())
}

func TestRoomFinishRoundScoresExactlyOnce(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	startRound(t, room, "B")

	require.NoError(t, room.SubmitAnswers("a", AnswerSheet{People: "Bob", Animals: "Bear", Places: "Berlin", Things: "Bag"}))
	require.NoError(t, room.SubmitAnswers("b", AnswerSheet{People: "Bob", Places: "Boston", Things: "Bag"}))

	results, err := room.FinishRound()
	require.NoError(t, err)
	assert.Equal(t, StatusReviewing, room.Status)
	assert.NotEmpty(t, results)

	playerA, _ := room.GetPlayer("a")
	playerB, _ := room.GetPlayer("b")
	assert.Equal(t, 14, playerA.Score)
	assert.Equal(t, 9, playerB.Score)

	// Second trigger (e.g. a late deadline timer) must be a no-op
	_, err = room.FinishRound()
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Equal(t, 14, playerA.Score)
	assert.Equal(t, 9, playerB.Score)
}

func TestRoomAvailableLettersComplementUsed(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	startRound(t, room, "B")

	available := room.AvailableLetters()
	assert.Len(t, available, 25)
	assert.NotContains(t, available, "B")

	for _, l := range available {
		assert.Contains(t, Alphabet, l)
	}
}

func TestRoomFinishesWhenAlphabetExhausted(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	require.NoError(t, room.Start())

	for i, letter := range AvailableLetters(nil) {
		began, err := room.BeginRound()
		require.NoError(t, err)
		require.True(t, began)
		require.Equal(t, i+1, room.CurrentRound)

		require.NoError(t, room.SelectLetter(letter, time.Now()))
		require.NoError(t, room.SubmitAnswers("a", AnswerSheet{People: letter + "ob"}))
		require.NoError(t, room.SubmitAnswers("b", AnswerSheet{}))
		_, err = room.FinishRound()
		require.NoError(t, err)
	}

	assert.Len(t, room.UsedLetters, 26)

	began, err := room.BeginRound()
	require.NoError(t, err)
	assert.False(t, began)
	assert.Equal(t, StatusFinished, room.Status)

	winner, ok := room.Winner()
	require.True(t, ok)
	assert.Equal(t, "a", winner.PlayerID)
	assert.Equal(t, 26*PointsUnique, winner.Score)
}

func TestRoomWinnerTieGoesToEarliestJoiner(t *testing.T) {
	room := newTestRoom(t, "a", "b")

	winner, ok := room.Winner()
	require.True(t, ok)
	assert.Equal(t, "a", winner.PlayerID)
}

func TestRoomRemovePlayerClearsRoundState(t *testing.T) {
	room := newTestRoom(t, "a", "b", "c")
	startRound(t, room, "B")

	require.NoError(t, room.SubmitAnswers("c", AnswerSheet{People: "Bob"}))
	require.NoError(t, room.RemovePlayer("c"))

	assert.NotContains(t, room.Answers, "c")
	assert.Len(t, room.Players, 2)

	assert.ErrorIs(t, room.RemovePlayer("c"), ErrPlayerNotFound)
}

func TestRoomBeginRoundClearsTransients(t *testing.T) {
	room := newTestRoom(t, "a", "b")
	startRound(t, room, "B")

	require.NoError(t, room.SubmitAnswers("a", AnswerSheet{People: "Bob"}))
	require.NoError(t, room.SubmitAnswers("b", AnswerSheet{People: "Ben"}))
	_, err := room.FinishRound()
	require.NoError(t, err)

	began, err := room.BeginRound()
	require.NoError(t, err)
	require.True(t, began)

	assert.Equal(t, 2, room.CurrentRound)
	assert.Empty(t, room.SelectedLetter)
	assert.True(t, room.RoundStartedAt.IsZero())
	assert.Empty(t, room.Answers)
	assert.Nil(t, room.Review)
	assert.Equal(t, []string{"B"}, room.UsedLetters)
}
