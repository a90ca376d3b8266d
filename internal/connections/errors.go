package connections

import (
	"errors"
	"fmt"

	"github.com/foundry-social/foundry/internal/models"
)

var (
	// ErrSelfReference is returned when a user targets themselves.
	ErrSelfReference = errors.New("cannot send a connection request to yourself")

	// ErrMessageRequired is returned when the intro message is empty
	// after trimming.
	ErrMessageRequired = errors.New("message is required")

	// ErrInvalidDecision is returned when a response is neither
	// accepted nor declined.
	ErrInvalidDecision = errors.New("status must be accepted or declined")

	// ErrNotFound is returned when the connection does not exist.
	ErrNotFound = errors.New("connection not found")

	// ErrRecipientNotFound is returned when the target user does not
	// exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrIdeaNotFound is returned when the referenced idea does not
	// exist.
	ErrIdeaNotFound = errors.New("idea not found")

	// ErrNotRecipient is returned when someone other than the
	// recipient tries to respond.
	ErrNotRecipient = errors.New("only the recipient can respond to this request")
)

// ConflictError is returned when a connection between the pair
// already exists, regardless of its status or idea.
type ConflictError struct {
	Status models.ConnectionStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("connection request already exists (status: %s)", e.Status)
}

// AlreadyResolvedError is returned when responding to a connection
// that is no longer pending. Status reports the terminal state the
// connection settled in.
type AlreadyResolvedError struct {
	Status models.ConnectionStatus
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("connection is already %s", e.Status)
}
