package model

// ServerMessage is the envelope broadcast to clients.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	MsgRoomCreated    = "roomCreated"
	MsgPlayerJoined   = "playerJoined"
	MsgPlayerLeft     = "playerLeft"
	MsgGameStart      = "gameStart"
	MsgPlayerMoved    = "playerMoved"
	MsgPlayerFinished = "playerFinished"
	MsgRoundResult    = "roundResult"
	MsgResetToLobby   = "resetToLobby"
	MsgError          = "error"
)

type RoomCreated struct {
	RoomCode string `json:"roomCode"`
	IsHost   bool   `json:"isHost"`
	Room     *Room  `json:"room"`
}

type PlayerJoined struct {
	Players    []*Player `json:"players"`
	RoomCode   string    `json:"roomCode"`
	MaxPlayers int       `json:"maxPlayers"`
}

type PlayerLeft struct {
	Players []*Player `json:"players"`
}

// GameStart carries the freshly generated maze. StartTime is the round's
// wall-clock start in Unix milliseconds.
type GameStart struct {
	Maze      *Maze     `json:"maze"`
	Round     int       `json:"round"`
	Players   []*Player `json:"players"`
	StartTime int64     `json:"startTime"`
	RoomCode  string    `json:"roomCode"`
}

type PlayerMoved struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

type PlayerFinished struct {
	PlayerID   string    `json:"playerId"`
	FinishTime float64   `json:"finishTime"`
	Players    []*Player `json:"players"`
}

type RoundResult struct {
	Winner        *Player   `json:"winner"`
	Players       []*Player `json:"players"`
	CurrentRound  int       `json:"currentRound"`
	TotalRounds   int       `json:"totalRounds"`
	IsGrandWinner bool      `json:"isGrandWinner"`
}

type ResetToLobby struct {
	Players []*Player `json:"players"`
}

func ErrorMessage(message string) ServerMessage {
	return ServerMessage{Type: MsgError, Data: message}
}
