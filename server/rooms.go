package server

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazerace/model"
)

// CodeAlphabet omits 0/O and 1/I/L.
const CodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const CodeLength = 4

type MemoryRegistry struct {
	rooms map[string]*model.Room
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{rooms: make(map[string]*model.Room)}
}

func (r *MemoryRegistry) Get(code string) (*model.Room, bool) {
	room, ok := r.rooms[code]
	return room, ok
}

func (r *MemoryRegistry) Put(room *model.Room) {
	r.rooms[room.Code] = room
}

func (r *MemoryRegistry) Delete(code string) {
	delete(r.rooms, code)
}

func (r *MemoryRegistry) All() []*model.Room {
	rooms := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (s *GameServer) createRoom(sess *PlayerSession, req model.CreateRoom) []Effect {
	room := &model.Room{
		Code:         s.newRoomCode(),
		MaxPlayers:   clamp(req.MaxPlayers, 2, 10),
		TotalRounds:  clamp(req.TotalRounds, 1, 25),
		CurrentRound: 1,
		Status:       model.StatusWaiting,
	}
	host := &model.Player{
		ID:       sess.Id,
		Name:     playerName(req.PlayerName),
		Color:    model.Palette[0],
		Position: model.Position{X: 1, Y: 1},
	}
	room.Players = []*model.Player{host}
	s.Registry.Put(room)

	log.Printf("createRoom code:%s host:%s max:%d rounds:%d",
		room.Code, host.Name, room.MaxPlayers, room.TotalRounds)

	return []Effect{toSender(model.ServerMessage{
		Type: model.MsgRoomCreated,
		Data: model.RoomCreated{RoomCode: room.Code, IsHost: true, Room: room},
	})}
}

func (s *GameServer) joinRoom(sess *PlayerSession, req model.JoinRoom) []Effect {
	room, ok := s.Registry.Get(normalizeCode(req.RoomCode))
	if !ok {
		return []Effect{errorEffect(ErrRoomNotFound)}
	}
	if room.Status != model.StatusWaiting {
		return []Effect{errorEffect(ErrGameInProgress)}
	}
	if len(room.Players) >= room.MaxPlayers {
		return []Effect{errorEffect(ErrRoomFull)}
	}

	player := &model.Player{
		ID:       sess.Id,
		Name:     playerName(req.PlayerName),
		Color:    model.Palette[len(room.Players)%len(model.Palette)],
		Position: model.Position{X: 1, Y: 1},
	}
	room.Players = append(room.Players, player)

	log.Printf("joinRoom code:%s player:%s %d/%d",
		room.Code, player.Name, len(room.Players), room.MaxPlayers)

	effects := []Effect{toRoom(room, model.ServerMessage{
		Type: model.MsgPlayerJoined,
		Data: model.PlayerJoined{Players: room.Players, RoomCode: room.Code, MaxPlayers: room.MaxPlayers},
	})}

	// Reaching capacity starts the first round, no explicit start call.
	if len(room.Players) == room.MaxPlayers {
		effects = append(effects, s.startRound(room)...)
	}
	return effects
}

// removePlayer scans every room for the connection id. The room is deleted
// outright once its last player leaves.
func (s *GameServer) removePlayer(id string) []Effect {
	for _, room := range s.Registry.All() {
		for i, p := range room.Players {
			if p.ID != id {
				continue
			}
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			if len(room.Players) == 0 {
				s.Registry.Delete(room.Code)
				log.Printf("removePlayer %s, room %s empty, deleted", id, room.Code)
				return nil
			}
			log.Printf("removePlayer %s from room %s", id, room.Code)
			return []Effect{toRoom(room, model.ServerMessage{
				Type: model.MsgPlayerLeft,
				Data: model.PlayerLeft{Players: room.Players},
			})}
		}
	}
	return nil
}

func (s *GameServer) newRoomCode() string {
	for {
		b := make([]byte, CodeLength)
		for i := range b {
			b[i] = CodeAlphabet[s.rng.Intn(len(CodeAlphabet))]
		}
		code := string(b)
		if _, taken := s.Registry.Get(code); !taken {
			return code
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func playerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Anon"
	}
	if len(name) > 16 {
		name = name[:16]
	}
	return name
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
