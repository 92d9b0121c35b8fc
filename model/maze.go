package model

import "math/rand"

const (
	Path = 0
	Wall = 1
)

// MinMazeSize is the smallest dimension the generator accepts.
const MinMazeSize = 5

type Maze struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Grid   [][]int `json:"grid"`
}

// NewMaze carves a perfect maze with a randomized depth-first backtracker
// walking the odd-coordinate nodes two cells at a step. Dimensions are
// normalized to odd values of at least MinMazeSize. The start cell is (1,1),
// the exit (Width-2, Height-2); the exit is carved open no matter where the
// walk ended.
func NewMaze(width, height int, rng *rand.Rand) *Maze {
	width = oddAtLeast(width)
	height = oddAtLeast(height)

	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
		for x := range grid[y] {
			grid[y][x] = Wall
		}
	}

	dirs := [4]Position{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	stack := []Position{{1, 1}}
	grid[1][1] = Path

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]Position, 0, 4)
		for _, d := range dirs {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if nx > 0 && nx < width-1 && ny > 0 && ny < height-1 && grid[ny][nx] == Wall {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := candidates[rng.Intn(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = Path
		grid[curr.Y+d.Y][curr.X+d.X] = Path
		stack = append(stack, Position{curr.X + d.X, curr.Y + d.Y})
	}

	grid[height-2][width-2] = Path

	return &Maze{Width: width, Height: height, Grid: grid}
}

func (m *Maze) Start() Position { return Position{1, 1} }
func (m *Maze) Exit() Position  { return Position{m.Width - 2, m.Height - 2} }

func (m *Maze) IsPath(p Position) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height && m.Grid[p.Y][p.X] == Path
}

// Clamp pins a position into the grid bounds. Wall collision is left to the
// clients.
func (m *Maze) Clamp(p Position) Position {
	if p.X < 0 {
		p.X = 0
	}
	if p.X >= m.Width {
		p.X = m.Width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y >= m.Height {
		p.Y = m.Height - 1
	}
	return p
}

// Solve returns a shortest path between two cells found by breadth-first
// search, both endpoints included, or nil when no path exists.
func (m *Maze) Solve(from, to Position) []Position {
	if !m.IsPath(from) || !m.IsPath(to) {
		return nil
	}

	steps := [4]Position{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	cameFrom := map[Position]Position{from: from}
	queue := []Position{from}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == to {
			path := []Position{curr}
			for curr != from {
				curr = cameFrom[curr]
				path = append([]Position{curr}, path...)
			}
			return path
		}

		for _, d := range steps {
			next := Position{curr.X + d.X, curr.Y + d.Y}
			if _, seen := cameFrom[next]; !seen && m.IsPath(next) {
				cameFrom[next] = curr
				queue = append(queue, next)
			}
		}
	}
	return nil
}

func oddAtLeast(n int) int {
	if n%2 == 0 {
		n--
	}
	if n < MinMazeSize {
		return MinMazeSize
	}
	return n
}
