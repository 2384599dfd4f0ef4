package database

import "time"

// RequestRecord is one audited call to the /bfhl endpoint. Only the outcome
// is kept; request and response bodies are never stored.
//
// RequestID is the X-Request-ID of the call. Operation is empty when the body
// selected no operation, ErrorKind is empty on success and CreatedAt holds
// Unix milliseconds.
type RequestRecord struct {
	ID         string `db:"id"`
	RequestID  string `db:"request_id"`
	Operation  string `db:"operation"`
	Status     int    `db:"status"`
	ErrorKind  string `db:"error_kind"`
	DurationMS int64  `db:"duration_ms"`
	CreatedAt  int64  `db:"created_at"`
}

// Time returns CreatedAt as a UTC time.Time.
func (r *RequestRecord) Time() time.Time {
	return time.UnixMilli(r.CreatedAt).UTC()
}
