package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type IDKind string

const (
	KindEvent    IDKind = "event"
	KindSpecimen IDKind = "specimen"
	KindBadge    IDKind = "badge"
)

// idHexLen is the number of random hex characters after the prefix.
const idHexLen = 8

var idPrefixes = map[IDKind]string{
	KindEvent:    "event",
	KindSpecimen: "spec",
	KindBadge:    "badge",
}

// Prefix returns the ID prefix used for kind.
func Prefix(kind IDKind) string {
	if p, ok := idPrefixes[kind]; ok {
		return p
	}
	return string(kind)
}

// NewID creates an identifier like "spec-1a2b3c4d" from a random v4 UUID.
func NewID(kind IDKind) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s-%s", Prefix(kind), hex[:idHexLen])
}

// HasKind reports whether id carries the prefix allocated for kind.
func HasKind(id string, kind IDKind) bool {
	return strings.HasPrefix(id, Prefix(kind)+"-")
}
