package services

import "github.com/anonto42/neighborly/backend/internal/models"

var bookingTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingAccepted, models.BookingDeclined, models.BookingCancelled},
	models.BookingAccepted:  {models.BookingCompleted, models.BookingCancelled},
	models.BookingDeclined:  {models.BookingCancelled},
	models.BookingCompleted: {models.BookingCancelled},
	models.BookingCancelled: nil,
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to models.BookingStatus) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (models.BookingStatus, bool) {
	status := models.BookingStatus(s)
	if _, ok := bookingTransitions[status]; !ok {
		return "", false
	}
	return status, true
}

// authorizeTransition checks that the actor's role allows the move. The
// actor must already be known to be a participant.
func authorizeTransition(actorIsRequester bool, to models.BookingStatus) error {
	switch to {
	case models.BookingAccepted, models.BookingDeclined:
		if !actorIsRequester {
			return forbiddenf("only the requester can %s a booking", verbFor(to))
		}
	}
	return nil
}

func verbFor(s models.BookingStatus) string {
	switch s {
	case models.BookingAccepted:
		return "accept"
	case models.BookingDeclined:
		return "decline"
	case models.BookingCompleted:
		return "complete"
	case models.BookingCancelled:
		return "cancel"
	}
	return string(s)
}
