package server

import (
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazerace/model"
)

func NewGameServer(cfg Config) *GameServer {
	return &GameServer{
		Registry:    NewMemoryRegistry(),
		Connects:    make(chan *PlayerSession, 16),
		Disconnects: make(chan *PlayerSession, 16),
		Events:      make(chan PlayerEvent, 64),
		Upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Config:   cfg,
		sessions: make(map[string]*PlayerSession),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *GameServer) HandleHttpCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		con, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("HandleHttpCall websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		ps := &PlayerSession{
			State:          PS_NEW,
			Id:             uuid.NewString(),
			GameServer:     s,
			Conn:           con,
			GameOver:       make(chan struct{}),
			MessagesToSend: make(chan model.ServerMessage, 16),
		}
		con.SetPingHandler(
			func(message string) error {
				err := con.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(time.Second))
				ps.DebugLastPing = time.Now()
				ps.DebugPings++
				if err == websocket.ErrCloseSent {
					return nil
				} else if e, ok := err.(net.Error); ok && e.Timeout() {
					return nil
				}
				return err
			})

		log.Printf("HandleHttpCall connection %s", ps.Id)
		s.Connects <- ps
		go ps.LoopChannelRead()
		go ps.LoopChannelWrite()

		// wait till the session is over
		<-ps.GameOver
	}
}

// Loop is the single event-processing goroutine. All room and session state
// is mutated here, one action at a time.
func (s *GameServer) Loop() {
	log.Printf("GameServer.Loop starting")
	for {
		select {
		case ps := <-s.Connects:
			ps.State = PS_PLAY
			s.sessions[ps.Id] = ps

		case ps := <-s.Disconnects:
			delete(s.sessions, ps.Id)
			s.dispatch(nil, s.removePlayer(ps.Id))
			if ps.State != PS_ERR {
				ps.State = PS_OVER
			}
			close(ps.GameOver)

		case pe := <-s.Events:
			s.dispatch(pe.Session, s.route(pe))
		}
	}
}

func (s *GameServer) route(pe PlayerEvent) []Effect {
	sess := pe.Session
	switch pe.Message.Type {

	case model.MsgCreateRoom:
		var req model.CreateRoom
		if json.Unmarshal(pe.Message.Data, &req) != nil {
			return nil
		}
		return s.createRoom(sess, req)

	case model.MsgJoinRoom:
		var req model.JoinRoom
		if json.Unmarshal(pe.Message.Data, &req) != nil {
			return nil
		}
		return s.joinRoom(sess, req)

	case model.MsgPlayerMove:
		var req model.PlayerMove
		if json.Unmarshal(pe.Message.Data, &req) != nil {
			return nil
		}
		return s.movePlayer(sess, req)

	case model.MsgPlayerWon:
		room, ok := s.roomFor(pe.Message.Data)
		if !ok {
			return nil
		}
		return recordFinish(room, sess.Id, time.Now())

	case model.MsgRequestNextRound:
		room, ok := s.roomFor(pe.Message.Data)
		if !ok {
			return nil
		}
		return advanceRound(room, s.Config.MazeWidth, s.Config.MazeHeight, s.rng, time.Now())

	case model.MsgRequestPlayAgain:
		room, ok := s.roomFor(pe.Message.Data)
		if !ok {
			return nil
		}
		return resetToLobby(room)

	default:
		log.Warnf("unknown message type %q from %s", pe.Message.Type, sess.Id)
		return nil
	}
}

// movePlayer relays the client-reported position to the rest of the room.
// Only grid bounds are enforced, not walls.
func (s *GameServer) movePlayer(sess *PlayerSession, req model.PlayerMove) []Effect {
	room, ok := s.Registry.Get(normalizeCode(req.RoomCode))
	if !ok || room.Status != model.StatusPlaying {
		return nil
	}
	player := room.FindPlayer(sess.Id)
	if player == nil {
		return nil
	}
	player.Position = room.Maze.Clamp(req.Position)
	return []Effect{toRoomExcept(room, sess.Id, model.ServerMessage{
		Type: model.MsgPlayerMoved,
		Data: model.PlayerMoved{ID: player.ID, Position: player.Position},
	})}
}

// roomFor resolves a {roomCode} payload. Stale or unknown codes are a silent
// no-op, tolerating late and duplicate messages.
func (s *GameServer) roomFor(data json.RawMessage) (*model.Room, bool) {
	var ref model.RoomRef
	if json.Unmarshal(data, &ref) != nil {
		return nil, false
	}
	room, ok := s.Registry.Get(normalizeCode(ref.RoomCode))
	return room, ok
}

func (s *GameServer) dispatch(sender *PlayerSession, effects []Effect) {
	for _, ef := range effects {
		switch ef.Audience {
		case ToSender:
			if sender != nil {
				s.send(sender, ef.Message)
			}
		case ToRoom, ToRoomExcept:
			for _, p := range ef.Room.Players {
				if ef.Audience == ToRoomExcept && p.ID == ef.Exclude {
					continue
				}
				if ps, ok := s.sessions[p.ID]; ok {
					s.send(ps, ef.Message)
				}
			}
		}
	}
}

func (s *GameServer) send(ps *PlayerSession, msg model.ServerMessage) {
	select {
	case ps.MessagesToSend <- msg:
	default:
		log.Warnf("dropping %s for %s, send buffer full", msg.Type, ps.Id)
	}
}

func (ps *PlayerSession) LoopChannelRead() {
	log.Printf("LoopChannelRead STARTED %s", ps.Id)
	for {
		cm := model.ClientMessage{}
		if err := ps.Conn.ReadJSON(&cm); err != nil {
			log.Printf("LoopChannelRead err reading message from Conn %v", err)
			ps.State = PS_ERR
			ps.GameServer.Disconnects <- ps
			break
		}
		ps.DebugLastMessage = time.Now()
		ps.DebugInMessages++

		select {
		case ps.GameServer.Events <- PlayerEvent{Session: ps, Message: cm}:
		default:
			log.Warnf("dropping %s from %s, event queue full", cm.Type, ps.Id)
		}
	}
	log.Printf("LoopChannelRead ENDED %s", ps.Id)
}

// LoopChannelWrite only consumes, the send buffer never blocks the loop.
func (ps *PlayerSession) LoopChannelWrite() {
	log.Printf("LoopChannelWrite STARTED %s", ps.Id)
	for {
		select {
		case mes := <-ps.MessagesToSend:
			if err := ps.Conn.WriteJSON(mes); err != nil {
				log.Warnf("LoopChannelWrite cant write %v", err)
				ps.Conn.Close()
				<-ps.GameOver
				log.Printf("LoopChannelWrite ENDED %s", ps.Id)
				return
			}
			ps.DebugOutMessages++
		case <-ps.GameOver:
			log.Printf("LoopChannelWrite ENDED %s", ps.Id)
			return
		}
	}
}
