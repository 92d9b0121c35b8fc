package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazerace/model"
)

// A headless client for exercising a running server: creates or joins a
// room, solves every maze it receives and walks the path at a fixed pace.
//
//	SERVER=localhost:8080 NAME=bot ROOM=ABCD go run ./cmd/bot
//
// With ROOM unset the bot creates a two-player room and logs its code so a
// second bot (or a browser) can join.

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type bot struct {
	conn     *websocket.Conn
	send     chan outbound
	name     string
	roomCode string
	host     bool
	stepWait time.Duration
}

func main() {
	addr := envOr("SERVER", "localhost:8080")
	b := &bot{
		send:     make(chan outbound, 16),
		name:     envOr("NAME", "bot"),
		roomCode: os.Getenv("ROOM"),
		stepWait: 40 * time.Millisecond,
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/play", nil)
	if err != nil {
		log.Fatalf("dial %s: %v", addr, err)
	}
	defer conn.Close()
	b.conn = conn

	go b.writeLoop()

	if b.roomCode == "" {
		b.host = true
		b.send <- outbound{Type: model.MsgCreateRoom, Data: model.CreateRoom{
			PlayerName: b.name, MaxPlayers: 2, TotalRounds: 3,
		}}
	} else {
		b.send <- outbound{Type: model.MsgJoinRoom, Data: model.JoinRoom{
			PlayerName: b.name, RoomCode: b.roomCode,
		}}
	}

	b.readLoop()
}

func (b *bot) readLoop() {
	for {
		var env envelope
		if err := b.conn.ReadJSON(&env); err != nil {
			log.Fatalf("read: %v", err)
		}
		switch env.Type {

		case model.MsgRoomCreated:
			var rc model.RoomCreated
			if json.Unmarshal(env.Data, &rc) != nil {
				continue
			}
			b.roomCode = rc.RoomCode
			log.Printf("room created, code %s, waiting for players", rc.RoomCode)

		case model.MsgPlayerJoined:
			var pj model.PlayerJoined
			if json.Unmarshal(env.Data, &pj) != nil {
				continue
			}
			log.Printf("roster %d/%d in %s", len(pj.Players), pj.MaxPlayers, pj.RoomCode)

		case model.MsgGameStart:
			var gs model.GameStart
			if json.Unmarshal(env.Data, &gs) != nil {
				continue
			}
			log.Printf("round %d started, maze %dx%d", gs.Round, gs.Maze.Width, gs.Maze.Height)
			go b.run(gs.Maze)

		case model.MsgRoundResult:
			var rr model.RoundResult
			if json.Unmarshal(env.Data, &rr) != nil {
				continue
			}
			log.Printf("round %d/%d won by %s (%.2fs)",
				rr.CurrentRound, rr.TotalRounds, rr.Winner.Name, rr.Winner.FinishTime)
			if rr.IsGrandWinner {
				log.Printf("match over, grand winner %s", rr.Winner.Name)
				return
			}
			if b.host {
				b.send <- outbound{Type: model.MsgRequestNextRound, Data: model.RoomRef{RoomCode: b.roomCode}}
			}

		case model.MsgError:
			var msg string
			json.Unmarshal(env.Data, &msg)
			log.Fatalf("server error: %s", msg)
		}
	}
}

// run walks one maze from start to exit and reports the finish.
func (b *bot) run(maze *model.Maze) {
	path := maze.Solve(maze.Start(), maze.Exit())
	if path == nil {
		log.Warnf("maze has no solution, staying put")
		return
	}
	for _, pos := range path[1:] {
		time.Sleep(b.stepWait)
		b.send <- outbound{Type: model.MsgPlayerMove, Data: model.PlayerMove{
			RoomCode: b.roomCode, Position: pos,
		}}
	}
	b.send <- outbound{Type: model.MsgPlayerWon, Data: model.RoomRef{RoomCode: b.roomCode}}
}

func (b *bot) writeLoop() {
	for msg := range b.send {
		if err := b.conn.WriteJSON(msg); err != nil {
			log.Fatalf("write: %v", err)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
