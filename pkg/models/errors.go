package models

import (
	"errors"
	"fmt"
)

// MalformedInputError reports a line of an input source that could not be parsed,
// or that references a node outside the graph.
type MalformedInputError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: malformed input %q: %v", e.Source, e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("%s: malformed input: %v", e.Source, e.Err)
}

// Unwrap() returns both the cause and ErrMalformedInput, so that errors.Is works for either.
func (e *MalformedInputError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}

//--------------------------ERROR-CODES--------------------------

var ErrMalformedInput = errors.New("malformed input")
var ErrNodeOutOfRange = errors.New("node ID out of range")
var ErrConfiguration = errors.New("invalid configuration")
var ErrDidNotConverge = errors.New("did not converge within the maximum number of iterations")

var ErrNilGraph = errors.New("graph pointer is nil")
var ErrEmptyMembership = errors.New("topic membership is empty")
var ErrEmptyTopic = errors.New("topic has no member documents")
var ErrTopicNotFound = errors.New("topic not found")

var ErrEngineDone = errors.New("engine already reached a terminal state")

var ErrNilSnapshot = errors.New("snapshot pointer is nil")
var ErrEmptySnapshot = errors.New("snapshot has no vectors")
var ErrInconsistentSnapshot = errors.New("snapshot vectors and topics are inconsistent")
var ErrRanksNotFound = errors.New("ranks not found in the store")
var ErrGraphNotFound = errors.New("graph not found in the store")

var ErrNilClientPointer = errors.New("nil client pointer")
