// Package store abstracts the key-value store the pipeline writes to. The
// contract is deliberately thin: existence check, hash-field set, list append
// and scalar set. No transactions or multi-key atomicity are assumed.
package store

import "context"

const (
	// TableHeadlines is the hash holding one serialized record per headline.
	TableHeadlines = "headlines"
	// TableEmbeddings is the hash holding one vector per keyword sub-token.
	TableEmbeddings = "embeddings"
	// KeyLastUpdated is the scalar holding the unix time of the latest write.
	KeyLastUpdated = "last_updated"
)

// Store is the persistence port consumed by the ingest pipeline.
type Store interface {
	// FieldExists reports whether field is present in the given table.
	FieldExists(ctx context.Context, table, field string) (bool, error)
	// SetField writes field=value into the table, overwriting silently.
	SetField(ctx context.Context, table, field, value string) error
	// AppendToList appends value to the list at key. Duplicates are kept.
	AppendToList(ctx context.Context, key, value string) error
	// SetScalar overwrites the scalar at key.
	SetScalar(ctx context.Context, key, value string) error

	Close() error
}
