package draft

import "errors"

var (
	// Reservation conflicts, rejected locally during keeper setup.
	ErrDuplicatePlayer    = errors.New("player already reserved as a keeper")
	ErrSlotTaken          = errors.New("keeper slot already reserved")
	ErrInvalidRound       = errors.New("keeper round outside draft length")
	ErrReservationsFrozen = errors.New("reservations are frozen once the draft starts")

	// Pick rejections, recoverable by retrying with another player.
	ErrUnknownPlayer  = errors.New("player not in catalog")
	ErrAlreadyDrafted = errors.New("player already drafted")
	ErrPlayerReserved = errors.New("player is reserved as a keeper")
	ErrRosterFull     = errors.New("no roster slot accepts this position")

	// ErrNoEligibleCandidate means the league configuration is
	// inconsistent; callers must not silently skip the slot.
	ErrNoEligibleCandidate = errors.New("no eligible autopick candidate")

	ErrIllegalUndo   = errors.New("undo not permitted")
	ErrDraftComplete = errors.New("draft complete")
)
