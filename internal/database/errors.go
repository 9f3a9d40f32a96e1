package database

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const uniqueFailedPrefix = "UNIQUE constraint failed: "

// IsUniqueViolation reports whether err is a unique index violation and, when the
// engine names it, the offending column (e.g. "sku" for "products.sku").
func IsUniqueViolation(err error) (string, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return "", false
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && se.Code() != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return "", false
	}
	return uniqueColumn(se.Error()), true
}

func uniqueColumn(msg string) string {
	i := strings.Index(msg, uniqueFailedPrefix)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(uniqueFailedPrefix):]
	if end := strings.IndexAny(rest, " ,("); end >= 0 {
		rest = rest[:end]
	}
	if dot := strings.LastIndex(rest, "."); dot >= 0 {
		rest = rest[dot+1:]
	}
	return rest
}
