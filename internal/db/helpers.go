package db

import "database/sql"

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullableID stores a nil id as SQL NULL.
func NullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// IDPtr converts a scanned nullable id.
func IDPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
