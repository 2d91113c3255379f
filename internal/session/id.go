// Package session generates short opaque identifiers for generation
// requests.
package session

import "github.com/google/uuid"

// NewID returns an 8-hex-character identifier. Collision-resistant at
// expected request volumes; no global uniqueness guarantee.
func NewID() string {
	return uuid.New().String()[:8]
}
