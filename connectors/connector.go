package connectors

import (
	"context"

	"github.com/maelgrv/spotflex/auth"
	"github.com/maelgrv/spotflex/core/ingest"
)

// Client fetches raw market rows from an upstream data API. Implementations
// hand rows back untouched; parsing and validation belong to the normalizer.
type Client interface {
	Fetch(ctx context.Context, cred *auth.ClientCred, opts ...Option) (ingest.Payload, error)
}

// Option configures a Client before a fetch.
type Option func(Client) error

// ErrIncompatibleOption formats the error for an option applied to the wrong
// client type.
const ErrIncompatibleOption = "option %s does not apply to client %s"
