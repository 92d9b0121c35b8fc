package model

import "encoding/json"

// ClientMessage is the envelope for everything a client sends over the
// socket. Data is decoded per Type by the session event router.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	MsgCreateRoom       = "createRoom"
	MsgJoinRoom         = "joinRoom"
	MsgPlayerMove       = "playerMove"
	MsgPlayerWon        = "playerWon"
	MsgRequestNextRound = "requestNextRound"
	MsgRequestPlayAgain = "requestPlayAgain"
)

type CreateRoom struct {
	PlayerName  string `json:"playerName"`
	MaxPlayers  int    `json:"maxPlayers"`
	TotalRounds int    `json:"totalRounds"`
}

type JoinRoom struct {
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode"`
}

type PlayerMove struct {
	RoomCode string   `json:"roomCode"`
	Position Position `json:"position"`
}

// RoomRef covers playerWon, requestNextRound and requestPlayAgain, which
// carry nothing but the room code.
type RoomRef struct {
	RoomCode string `json:"roomCode"`
}
