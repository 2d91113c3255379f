// Package store persists generation sessions for auditing. The
// derivation engine never depends on it; handlers invoke it explicitly
// and treat failures as non-fatal.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/orbitlab/planetforge/internal/derive"
	"github.com/orbitlab/planetforge/internal/params"
)

// ErrNotFound indicates no session exists for the requested id.
var ErrNotFound = eris.New("store: session not found")

// Session records one generation: the merged parameter document that
// fed the engine and the result it produced.
type Session struct {
	ID         string          `json:"id"`
	Parameters params.Document `json:"parameters"`
	Result     *derive.Result  `json:"result"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Store defines the audit persistence interface.
type Store interface {
	SaveSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, limit int) ([]Session, error)

	Migrate(ctx context.Context) error
	Close() error
}
