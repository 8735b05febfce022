/*
Package store implements the read-only user directory and FAQ collaborator.

Two backends are available: PostgreSQL (schema managed by goose migrations) and MongoDB
(the "users" and "faq" collections). Both expose the same Directory interface.
*/
package store

import (
	"context"
	"fmt"

	"relaybot/internal/app/faq"
	"relaybot/internal/app/user"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// adminType is the directory "type" value that marks an administrator.
const adminType = "admin"

// Directory is the read-only view of the user directory and FAQ catalog.
type Directory interface {
	FindAdmins(ctx context.Context) ([]user.ID, error)
	FindFAQs(ctx context.Context) ([]faq.Entry, error)
	Close(ctx context.Context) error
}

// Config selects and configures the backend.
type Config struct {
	Driver        string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string
}

// Open connects to the configured backend. Connection failures are returned as errors;
// callers treat them as fatal at startup.
func Open(ctx context.Context, cfg Config) (Directory, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
