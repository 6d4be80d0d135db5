package license

import (
	"context"
	"regexp"
	"strings"
)

// Keys follow the vendor's XXXXXXXX-XXXXXXXX-XXXXXXXX-XXXXXXXX scheme and
// are validated locally; there is no server round-trip.
var keyPattern = regexp.MustCompile(`^[A-Z0-9]{8}-[A-Z0-9]{8}-[A-Z0-9]{8}-[A-Z0-9]{8}$`)

// Gate is the precondition every detection pass runs behind. A denied gate
// is not an error: the scan simply does not happen and the result is empty.
type Gate interface {
	Allowed(ctx context.Context) bool
}

// KeyGate validates a locally-configured license key's format.
type KeyGate struct {
	key string
}

func NewKeyGate(key string) *KeyGate {
	return &KeyGate{key: strings.TrimSpace(key)}
}

func (g *KeyGate) Allowed(context.Context) bool {
	return ValidKeyFormat(g.key)
}

func ValidKeyFormat(key string) bool {
	return keyPattern.MatchString(key)
}

// Open always allows; used in tests and when gating is handled upstream.
type Open struct{}

func (Open) Allowed(context.Context) bool { return true }
