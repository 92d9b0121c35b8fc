package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/mazerace/model"
)

func TestMovePlayerRelaysToOthers(t *testing.T) {
	s := testServer()
	room := createdRoom(t, s, session("host"), 2, 3)
	s.joinRoom(session("p2"), model.JoinRoom{PlayerName: "p2", RoomCode: room.Code})
	require.Equal(t, model.StatusPlaying, room.Status)

	effects := s.movePlayer(session("p2"), model.PlayerMove{
		RoomCode: room.Code,
		Position: model.Position{X: 3, Y: 1},
	})
	require.Len(t, effects, 1)
	assert.Equal(t, ToRoomExcept, effects[0].Audience)
	assert.Equal(t, "p2", effects[0].Exclude)
	assert.Equal(t, model.MsgPlayerMoved, effects[0].Message.Type)

	moved := effects[0].Message.Data.(model.PlayerMoved)
	assert.Equal(t, model.Position{X: 3, Y: 1}, moved.Position)
	assert.Equal(t, moved.Position, room.FindPlayer("p2").Position)
}

func TestMovePlayerClampsToGrid(t *testing.T) {
	s := testServer()
	room := createdRoom(t, s, session("host"), 2, 3)
	s.joinRoom(session("p2"), model.JoinRoom{PlayerName: "p2", RoomCode: room.Code})

	s.movePlayer(session("p2"), model.PlayerMove{
		RoomCode: room.Code,
		Position: model.Position{X: -5, Y: 99},
	})
	pos := room.FindPlayer("p2").Position
	assert.Equal(t, 0, pos.X)
	assert.Equal(t, room.Maze.Height-1, pos.Y)
}

// Out-of-state and unknown-room input is dropped without an error reply.
func TestMoveSilentlyDropped(t *testing.T) {
	s := testServer()
	room := createdRoom(t, s, session("host"), 3, 3)

	assert.Empty(t, s.movePlayer(session("host"), model.PlayerMove{RoomCode: "ZZZZ"}))
	assert.Empty(t, s.movePlayer(session("host"), model.PlayerMove{RoomCode: room.Code}),
		"room still waiting")
}

func TestRouteDropsMalformedAndUnknown(t *testing.T) {
	s := testServer()
	sess := session("p1")

	assert.Empty(t, s.route(PlayerEvent{Session: sess, Message: model.ClientMessage{
		Type: model.MsgCreateRoom,
		Data: json.RawMessage(`"not an object"`),
	}}))
	assert.Empty(t, s.route(PlayerEvent{Session: sess, Message: model.ClientMessage{
		Type: "bogus",
	}}))
	assert.Empty(t, s.route(PlayerEvent{Session: sess, Message: model.ClientMessage{
		Type: model.MsgPlayerWon,
		Data: json.RawMessage(`{"roomCode":"ZZZZ"}`),
	}}))
}

func TestRouteFullFlow(t *testing.T) {
	s := testServer()
	host := session("host")

	effects := s.route(PlayerEvent{Session: host, Message: model.ClientMessage{
		Type: model.MsgCreateRoom,
		Data: json.RawMessage(`{"playerName":"host","maxPlayers":2,"totalRounds":1}`),
	}})
	require.Len(t, effects, 1)
	code := effects[0].Message.Data.(model.RoomCreated).RoomCode

	p2 := session("p2")
	effects = s.route(PlayerEvent{Session: p2, Message: model.ClientMessage{
		Type: model.MsgJoinRoom,
		Data: json.RawMessage(`{"playerName":"p2","roomCode":"` + code + `"}`),
	}})
	require.Len(t, effects, 2)
	assert.Equal(t, model.MsgGameStart, effects[1].Message.Type)

	won := json.RawMessage(`{"roomCode":"` + code + `"}`)
	s.route(PlayerEvent{Session: host, Message: model.ClientMessage{Type: model.MsgPlayerWon, Data: won}})
	effects = s.route(PlayerEvent{Session: p2, Message: model.ClientMessage{Type: model.MsgPlayerWon, Data: won}})
	require.Len(t, effects, 1)
	result := effects[0].Message.Data.(model.RoundResult)
	assert.Equal(t, "host", result.Winner.ID)
	assert.True(t, result.IsGrandWinner)

	effects = s.route(PlayerEvent{Session: host, Message: model.ClientMessage{Type: model.MsgRequestPlayAgain, Data: won}})
	require.Len(t, effects, 1)
	assert.Equal(t, model.MsgResetToLobby, effects[0].Message.Type)
}
