package server

import (
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zucenko/mazerace/model"
)

type GameServer struct {
	Registry    Registry
	Connects    chan *PlayerSession
	Disconnects chan *PlayerSession
	Events      chan PlayerEvent
	Upgrader    *websocket.Upgrader
	Config      Config

	// sessions and rng are owned by Loop; no other goroutine touches them.
	sessions map[string]*PlayerSession
	rng      *rand.Rand
}

// Registry is the room store. The single event loop owns it, so
// implementations carry no locking.
type Registry interface {
	Get(code string) (*model.Room, bool)
	Put(room *model.Room)
	Delete(code string)
	All() []*model.Room
}

type PlayerSessionState int

const (
	PS_NEW PlayerSessionState = iota + 1
	PS_PLAY
	PS_OVER
	PS_ERR
)

type PlayerSession struct {
	State      PlayerSessionState
	Id         string
	GameServer *GameServer
	Conn       *websocket.Conn
	GameOver   chan struct{}

	MessagesToSend chan model.ServerMessage

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugLastPing    time.Time
	DebugPings       int
}

type PlayerEvent struct {
	Session *PlayerSession
	Message model.ClientMessage
}

type Audience int

const (
	ToSender Audience = iota
	ToRoom
	ToRoomExcept
)

// Effect is an outbound message paired with its audience. State transitions
// return effects; only the event loop performs the sends.
type Effect struct {
	Audience Audience
	Room     *model.Room
	Exclude  string
	Message  model.ServerMessage
}
