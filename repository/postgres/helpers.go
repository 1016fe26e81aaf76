package postgres

import "time"

// rowScanner matches both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func derefOrNil(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
