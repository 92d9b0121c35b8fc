package server

import (
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazerace/model"
)

// Round lifecycle. The transitions below mutate the room and return the
// broadcast effects; they never touch a socket, which keeps them testable
// without a transport.

func (s *GameServer) startRound(room *model.Room) []Effect {
	return beginRound(room, s.Config.MazeWidth, s.Config.MazeHeight, s.rng, time.Now())
}

func beginRound(room *model.Room, width, height int, rng *rand.Rand, now time.Time) []Effect {
	maze := model.NewMaze(width, height, rng)
	room.Maze = maze
	room.StartTime = now
	room.Status = model.StatusPlaying
	for _, p := range room.Players {
		p.Position = maze.Start()
		p.Finished = false
		p.FinishTime = 0
	}

	log.Printf("round %d/%d starting in room %s, maze %dx%d",
		room.CurrentRound, room.TotalRounds, room.Code, maze.Width, maze.Height)

	return []Effect{toRoom(room, model.ServerMessage{
		Type: model.MsgGameStart,
		Data: model.GameStart{
			Maze:      maze,
			Round:     room.CurrentRound,
			Players:   room.Players,
			StartTime: now.UnixMilli(),
			RoomCode:  room.Code,
		},
	})}
}

// recordFinish is idempotent: a finished player, an unknown player or a room
// that is not playing all leave the state untouched.
func recordFinish(room *model.Room, playerID string, now time.Time) []Effect {
	if room.Status != model.StatusPlaying {
		return nil
	}
	player := room.FindPlayer(playerID)
	if player == nil || player.Finished {
		return nil
	}

	player.Finished = true
	player.FinishTime = now.Sub(room.StartTime).Seconds()

	if !room.AllFinished() {
		return []Effect{toRoom(room, model.ServerMessage{
			Type: model.MsgPlayerFinished,
			Data: model.PlayerFinished{
				PlayerID:   player.ID,
				FinishTime: player.FinishTime,
				Players:    room.Players,
			},
		})}
	}

	room.Status = model.StatusRoundOver
	winner := roundWinner(room)
	winner.Score++

	grand := winner.Score >= majority(room.TotalRounds) || room.CurrentRound == room.TotalRounds
	if grand {
		room.Status = model.StatusGameOver
	}

	log.Printf("round %d of room %s won by %s (%.2fs) grand:%v",
		room.CurrentRound, room.Code, winner.Name, winner.FinishTime, grand)

	return []Effect{toRoom(room, model.ServerMessage{
		Type: model.MsgRoundResult,
		Data: model.RoundResult{
			Winner:        winner,
			Players:       room.Players,
			CurrentRound:  room.CurrentRound,
			TotalRounds:   room.TotalRounds,
			IsGrandWinner: grand,
		},
	})}
}

func advanceRound(room *model.Room, width, height int, rng *rand.Rand, now time.Time) []Effect {
	if room.Status != model.StatusRoundOver || room.CurrentRound >= room.TotalRounds {
		return nil
	}
	room.CurrentRound++
	return beginRound(room, width, height, rng, now)
}

// resetToLobby handles a play-again request on a finished match: scores and
// round counter are reset and the clients return to the lobby view.
func resetToLobby(room *model.Room) []Effect {
	if room.Status != model.StatusGameOver {
		return nil
	}
	room.Status = model.StatusWaiting
	room.CurrentRound = 1
	room.Maze = nil
	for _, p := range room.Players {
		p.Score = 0
		p.Finished = false
		p.FinishTime = 0
		p.Position = model.Position{X: 1, Y: 1}
	}
	return []Effect{toRoom(room, model.ServerMessage{
		Type: model.MsgResetToLobby,
		Data: model.ResetToLobby{Players: room.Players},
	})}
}

// roundWinner picks the lowest finish time; exact ties go to the earlier
// entry in the player list.
func roundWinner(room *model.Room) *model.Player {
	winner := room.Players[0]
	for _, p := range room.Players[1:] {
		if p.FinishTime < winner.FinishTime {
			winner = p
		}
	}
	return winner
}

func majority(totalRounds int) int {
	return (totalRounds + 1) / 2
}
