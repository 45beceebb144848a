package sqlstore

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dialector picks a gorm driver for a store URI.
//
//	postgres://... or postgresql://...   PostgreSQL
//	sqlite://path, file:..., :memory:    SQLite
func Dialector(uri string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return pgdriver.Open(uri), nil
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite store URI has no path: %q", uri)
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(uri, "file:"), uri == ":memory:":
		return sqlite.Open(uri), nil
	default:
		return nil, fmt.Errorf("unsupported store URI scheme: %q", redact(uri))
	}
}

// redact strips credentials from a URI before it is logged or returned.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}
	return scheme + "://" + rest
}
