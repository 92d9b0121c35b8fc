package server

import (
	"errors"
	"fmt"

	"github.com/zucenko/mazerace/model"
)

// Errors surfaced to the originating client as a generic error message.
// Everything else out of state is silently dropped.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrGameInProgress = errors.New("game already in progress")
	ErrRoomFull       = errors.New("room is full")
)

func (ps PlayerSessionState) Name() string {
	switch ps {
	case PS_NEW:
		return "NEW"
	case PS_PLAY:
		return "PLAY"
	case PS_OVER:
		return "OVER"
	case PS_ERR:
		return "ERR"
	default:
		return fmt.Sprintf("n/a:%d", ps)
	}
}

func toSender(msg model.ServerMessage) Effect {
	return Effect{Audience: ToSender, Message: msg}
}

func toRoom(room *model.Room, msg model.ServerMessage) Effect {
	return Effect{Audience: ToRoom, Room: room, Message: msg}
}

func toRoomExcept(room *model.Room, exclude string, msg model.ServerMessage) Effect {
	return Effect{Audience: ToRoomExcept, Room: room, Exclude: exclude, Message: msg}
}

func errorEffect(err error) Effect {
	return toSender(model.ErrorMessage(err.Error()))
}
