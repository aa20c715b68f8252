package api

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream failure the way the UI needs to react to it:
// transport problems, payload rejections, and upstream 5xx.
type Kind int

const (
	KindNetwork Kind = iota
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // human-readable, from the upstream body when available
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("azharstore api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("azharstore api: %s: %s", e.Kind, e.Message)
}

func IsNetwork(err error) bool    { return isKind(err, KindNetwork) }
func IsValidation(err error) bool { return isKind(err, KindValidation) }
func IsServer(err error) bool     { return isKind(err, KindServer) }

func isKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
