package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port       string
	MazeWidth  int
	MazeHeight int
}

// LoadConfig reads configuration from the environment, with an optional .env
// file. Maze dimensions are normalized by the generator, so odd values are
// not enforced here.
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Info("environment loaded from .env")
	}
	return Config{
		Port:       envString("PORT", "8080"),
		MazeWidth:  envInt("MAZE_WIDTH", 21),
		MazeHeight: envInt("MAZE_HEIGHT", 21),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return n
}
