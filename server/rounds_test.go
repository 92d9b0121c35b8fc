package server

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/mazerace/model"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func playingRoom(totalRounds int, ids ...string) *model.Room {
	room := &model.Room{
		Code:         "TEST",
		MaxPlayers:   len(ids),
		TotalRounds:  totalRounds,
		CurrentRound: 1,
		Status:       model.StatusWaiting,
	}
	for i, id := range ids {
		room.Players = append(room.Players, &model.Player{
			ID:    id,
			Name:  id,
			Color: model.Palette[i%len(model.Palette)],
		})
	}
	beginRound(room, 11, 11, rand.New(rand.NewSource(1)), t0)
	return room
}

func finishAt(room *model.Room, id string, seconds float64) []Effect {
	return recordFinish(room, id, t0.Add(time.Duration(seconds*float64(time.Second))))
}

func TestBeginRoundResetsPlayers(t *testing.T) {
	room := playingRoom(3, "p1", "p2")
	room.Players[0].Position = model.Position{X: 5, Y: 7}
	room.Players[0].Finished = true
	room.Players[0].FinishTime = 9.9

	effects := beginRound(room, 11, 11, rand.New(rand.NewSource(2)), t0)

	assert.Equal(t, model.StatusPlaying, room.Status)
	require.NotNil(t, room.Maze)
	for _, p := range room.Players {
		assert.Equal(t, room.Maze.Start(), p.Position)
		assert.False(t, p.Finished)
		assert.Zero(t, p.FinishTime)
	}

	require.Len(t, effects, 1)
	assert.Equal(t, ToRoom, effects[0].Audience)
	assert.Equal(t, model.MsgGameStart, effects[0].Message.Type)
	start := effects[0].Message.Data.(model.GameStart)
	assert.Equal(t, t0.UnixMilli(), start.StartTime)
	assert.Equal(t, 1, start.Round)
}

func TestRecordFinishIncremental(t *testing.T) {
	room := playingRoom(3, "p1", "p2", "p3")

	effects := finishAt(room, "p1", 4.5)
	require.Len(t, effects, 1)
	assert.Equal(t, model.MsgPlayerFinished, effects[0].Message.Type)
	assert.Equal(t, model.StatusPlaying, room.Status)

	fin := effects[0].Message.Data.(model.PlayerFinished)
	assert.Equal(t, "p1", fin.PlayerID)
	assert.InDelta(t, 4.5, fin.FinishTime, 1e-9)
}

func TestRecordFinishIdempotent(t *testing.T) {
	room := playingRoom(3, "p1", "p2")

	finishAt(room, "p1", 2.0)
	assert.Empty(t, finishAt(room, "p1", 8.0))
	assert.InDelta(t, 2.0, room.Players[0].FinishTime, 1e-9)
	assert.Zero(t, room.Players[0].Score)
}

func TestRecordFinishIgnoresUnknownPlayer(t *testing.T) {
	room := playingRoom(3, "p1", "p2")
	assert.Empty(t, finishAt(room, "ghost", 1.0))
}

func TestRecordFinishOutsideRound(t *testing.T) {
	room := playingRoom(3, "p1", "p2")
	room.Status = model.StatusRoundOver
	assert.Empty(t, finishAt(room, "p1", 1.0))
	assert.False(t, room.Players[0].Finished)
}

func TestRoundWinnerTieBreaksOnListOrder(t *testing.T) {
	room := playingRoom(5, "p1", "p2", "p3")

	finishAt(room, "p1", 5.0)
	finishAt(room, "p2", 3.2)
	effects := finishAt(room, "p3", 3.2)

	require.Len(t, effects, 1)
	assert.Equal(t, model.MsgRoundResult, effects[0].Message.Type)
	result := effects[0].Message.Data.(model.RoundResult)
	assert.Equal(t, "p2", result.Winner.ID)
	assert.Equal(t, 1, result.Winner.Score)
	assert.False(t, result.IsGrandWinner)
	assert.Equal(t, model.StatusRoundOver, room.Status)
}

func TestMatchEndsOnMajority(t *testing.T) {
	room := playingRoom(5, "p1", "p2")
	room.CurrentRound = 3
	room.Players[0].Score = 2 // one win from ceil(5/2)

	finishAt(room, "p2", 9.0)
	effects := finishAt(room, "p1", 4.0)

	require.Len(t, effects, 1)
	result := effects[0].Message.Data.(model.RoundResult)
	assert.Equal(t, "p1", result.Winner.ID)
	assert.Equal(t, 3, result.Winner.Score)
	assert.True(t, result.IsGrandWinner)
	assert.Equal(t, model.StatusGameOver, room.Status)
}

func TestMatchEndsOnFinalRound(t *testing.T) {
	room := playingRoom(3, "p1", "p2")
	room.CurrentRound = 3

	finishAt(room, "p2", 9.0)
	effects := finishAt(room, "p1", 4.0)

	result := effects[0].Message.Data.(model.RoundResult)
	assert.Equal(t, 1, result.Winner.Score)
	assert.True(t, result.IsGrandWinner)
	assert.Equal(t, model.StatusGameOver, room.Status)
}

func TestAdvanceRound(t *testing.T) {
	room := playingRoom(3, "p1", "p2")
	finishAt(room, "p1", 1.0)
	finishAt(room, "p2", 2.0)
	require.Equal(t, model.StatusRoundOver, room.Status)
	firstMaze := room.Maze

	effects := advanceRound(room, 11, 11, rand.New(rand.NewSource(9)), t0.Add(time.Minute))
	require.Len(t, effects, 1)
	assert.Equal(t, model.MsgGameStart, effects[0].Message.Type)
	assert.Equal(t, 2, room.CurrentRound)
	assert.Equal(t, model.StatusPlaying, room.Status)
	assert.NotSame(t, firstMaze, room.Maze)
}

func TestAdvanceRoundGuards(t *testing.T) {
	room := playingRoom(1, "p1", "p2")
	assert.Empty(t, advanceRound(room, 11, 11, rand.New(rand.NewSource(1)), t0), "no-op while playing")

	finishAt(room, "p1", 1.0)
	finishAt(room, "p2", 2.0)
	// single-round match, already game over
	assert.Empty(t, advanceRound(room, 11, 11, rand.New(rand.NewSource(1)), t0))
}

func TestResetToLobby(t *testing.T) {
	room := playingRoom(1, "p1", "p2")
	finishAt(room, "p1", 1.0)
	finishAt(room, "p2", 2.0)
	require.Equal(t, model.StatusGameOver, room.Status)

	effects := resetToLobby(room)
	require.Len(t, effects, 1)
	assert.Equal(t, model.MsgResetToLobby, effects[0].Message.Type)

	assert.Equal(t, model.StatusWaiting, room.Status)
	assert.Equal(t, 1, room.CurrentRound)
	assert.Nil(t, room.Maze)
	for _, p := range room.Players {
		assert.Zero(t, p.Score)
		assert.False(t, p.Finished)
	}
}

func TestResetToLobbyOnlyAfterGameOver(t *testing.T) {
	room := playingRoom(3, "p1", "p2")
	assert.Empty(t, resetToLobby(room))
	assert.Equal(t, model.StatusPlaying, room.Status)
}
