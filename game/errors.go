package game

import "fmt"

type PlayerNotFoundError struct {
	HandID   string
	PlayerID string
}

func (e PlayerNotFoundError) Error() string {
	return fmt.Sprintf("Player %s is not found in hand %s", e.PlayerID, e.HandID)
}

type HandNotFoundError struct {
	HandID string
}

func (e HandNotFoundError) Error() string {
	return fmt.Sprintf("Hand %s is not found", e.HandID)
}

type InvalidActionError struct {
	HandID   string
	PlayerID string
	Msg      string
}

func (e InvalidActionError) Error() string {
	if e.PlayerID == "" {
		return fmt.Sprintf("Invalid action on hand %s: %s", e.HandID, e.Msg)
	}
	return fmt.Sprintf("Invalid action by player %s on hand %s: %s", e.PlayerID, e.HandID, e.Msg)
}

// ExternalServiceError is a failure of the dealing service or the hand store.
type ExternalServiceError struct {
	Service string
	HandID  string
	Err     error
}

func (e ExternalServiceError) Error() string {
	if e.HandID == "" {
		return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s failed for hand %s: %v", e.Service, e.HandID, e.Err)
}

func (e ExternalServiceError) Unwrap() error {
	return e.Err
}

// SuccessorHandError means the hand was closed and persisted but the next
// hand could not be created. Resubmit Seating as a deal request.
type SuccessorHandError struct {
	ClosedHandID string
	Seating      DealInput
	Err          error
}

func (e SuccessorHandError) Error() string {
	return fmt.Sprintf("Hand %s is closed but the next hand for table %s was not created: %v",
		e.ClosedHandID, e.Seating.TableID, e.Err)
}

func (e SuccessorHandError) Unwrap() error {
	return e.Err
}

type TableNotFoundError struct {
	TableID string
}

func (e TableNotFoundError) Error() string {
	return fmt.Sprintf("No hand is tracked for table %s", e.TableID)
}
