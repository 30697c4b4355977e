package http

import (
	"errors"
	"net/http"

	"lobby/internal/app"
	"lobby/internal/domain"
)

// statusFor maps core failures onto HTTP responses. Internal detail never
// leaks to the client.
func statusFor(err error) (int, string) {
	var (
		notFound       app.RoomNotFoundError
		roomFull       domain.RoomFullError
		notOwner       domain.NotOwnerError
		notParticipant domain.NotParticipantError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, "room not found"
	case errors.As(err, &roomFull):
		return http.StatusBadRequest, "room full"
	case errors.As(err, &notOwner):
		return http.StatusUnauthorized, "not an owner of the room"
	case errors.As(err, &notParticipant):
		return http.StatusBadRequest, "not a participant of the room"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
