package db

import "context"

// SchemaInterface is a versioned database schema.
//
// Versions are numbered directories of a schema repository.
// A database is up to date when its version is the largest number in the repository.
type SchemaInterface interface {
	// Upgrade applies versions newer than the database, in order, in a transaction.
	Upgrade(ctx context.Context) error

	// Version returns the version of the database. 0 means nothing is applied.
	Version(ctx context.Context) (int, error)

	// Latest returns the largest version in the repository.
	Latest() (int, error)

	// Context returns a context which is cancelled when the database is older than the repository.
	//
	// The repository is watched; adding a new version cancels the context.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
