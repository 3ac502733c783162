package ports

import "context"

// SecretStore holds signing seeds behind a scoped-access boundary. The
// coordinator fetches a seed only for the duration of a signing operation
// and never logs or stores it alongside session state.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
