package game

import "errors"

// Wire codes for recoverable domain errors. The client receives the code
// and keeps its connection.
const (
	CodeItemOwned         = 400
	CodeInsufficientFunds = 401
	CodeItemUnavailable   = 402
)

var (
	// ErrProtocol marks connection-fatal input: wrong shape, unknown tags,
	// references that a well-behaved client could never produce.
	ErrProtocol = errors.New("protocol violation")

	// ErrPlayerNotFound means the target id has neither a live session nor
	// a stored row. Fatal in contexts that require existence.
	ErrPlayerNotFound = errors.New("player not found")
)

// DomainError is a recoverable rule violation reported to the client as a
// numeric code without closing the connection.
type DomainError struct {
	Code   int
	Reason string
}

func (e *DomainError) Error() string { return e.Reason }

var (
	ErrItemUnavailable   = &DomainError{Code: CodeItemUnavailable, Reason: "item unknown or disabled"}
	ErrItemOwned         = &DomainError{Code: CodeItemOwned, Reason: "item already owned"}
	ErrInsufficientFunds = &DomainError{Code: CodeInsufficientFunds, Reason: "insufficient coins"}
)

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
