package model

import "time"

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusRoundOver Status = "round_over"
	StatusGameOver  Status = "game_over"
)

// Palette is assigned cyclically by join order.
var Palette = [10]string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#1abc9c",
	"#3498db", "#9b59b6", "#e84393", "#00cec9", "#6c5ce7",
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Player struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	Color      string   `json:"color"`
	Position   Position `json:"position"`
	Finished   bool     `json:"finished"`
	FinishTime float64  `json:"finishTime"`
}

type Room struct {
	Code         string    `json:"code"`
	Players      []*Player `json:"players"`
	MaxPlayers   int       `json:"maxPlayers"`
	TotalRounds  int       `json:"totalRounds"`
	CurrentRound int       `json:"currentRound"`
	Status       Status    `json:"status"`
	Maze         *Maze     `json:"maze,omitempty"`
	StartTime    time.Time `json:"-"`
}

func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AllFinished reports whether every player crossed the exit this round.
// An empty room never counts as finished.
func (r *Room) AllFinished() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if !p.Finished {
			return false
		}
	}
	return true
}
