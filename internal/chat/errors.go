package chat

import "errors"

// ErrOwnershipRequired is returned when the author has no purchase
// record for the room's game. Nothing is persisted or broadcast.
var ErrOwnershipRequired = errors.New("game ownership required")
