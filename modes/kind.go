package modes

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects a force generator and spawn layout.
type Kind uint8

const (
	Pit Kind = iota
	Weightless
	Vortex
	Pointer
	Script
)

var ErrUnknownMode = errors.New("modes: unknown mode")

var kindNames = [...]string{
	Pit:        "pit",
	Weightless: "weightless",
	Vortex:     "vortex",
	Pointer:    "pointer",
	Script:     "script",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind accepts a mode name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Kinds lists every mode in cycling order.
func Kinds() []Kind {
	return []Kind{Pit, Weightless, Vortex, Pointer, Script}
}

// Next returns the mode after k, wrapping around.
func (k Kind) Next() Kind {
	return Kind((int(k) + 1) % len(kindNames))
}
