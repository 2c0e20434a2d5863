package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePhy trims a physical-layer label and converts it to Unicode NFC.
//
// Labels arrive from platform BLE stacks; storing the NFC form keeps
// byte-equality meaningful when labels are compared after a round-trip.
func NormalizePhy(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}
