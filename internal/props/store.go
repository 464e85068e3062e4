package props

import (
	"context"
	"fmt"
	"strings"
)

// Keys written by the chemistry tools.
const (
	KeyChemistryData      = "CHEMISTRY_DATA"
	KeyChemistryDataTime  = "CHEMISTRY_DATA_TIMESTAMP"
	KeyLookupTimestamp    = "CHEMISTRY_LOOKUP_TIMESTAMP"
	KeyLookupRowCount     = "CHEMISTRY_LOOKUP_ROWCOUNT"
	KeyLookupChecksum     = "CHEMISTRY_LOOKUP_CHECKSUM"
	KeyLookupLastModified = "CHEMISTRY_LOOKUP_LAST_MODIFIED"
	KeyTrajectoryData     = "TRAJECTORY_DATA"
)

// Store is a string key/value property store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // file | redis | sql

	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Driver string
	DSN    string
}

// Open returns the backend named by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "file":
		return OpenFile(opts.Path)
	case "redis":
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case "sql":
		return OpenSQL(opts.Driver, opts.DSN)
	default:
		return nil, fmt.Errorf("props: unsupported backend %q (expected file|redis|sql)", opts.Backend)
	}
}
