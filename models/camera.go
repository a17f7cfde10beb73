package models

import "time"

// PendingThreshold is how long a camera may stay silent before its
// connection is reported as pending.
const PendingThreshold = 300 * time.Second

// Camera represents a single remote camera device known to the server.
// Records are created implicitly the first time an unknown device reports in.
type Camera struct {
	Name           string `json:"name" yaml:"-"`
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	LastConnection int64  `json:"last_connection" yaml:"last_connection"` // unix seconds, UTC
}

// ConnectionPending reports whether the camera has not been heard from for
// longer than PendingThreshold at the given instant.
func (c *Camera) ConnectionPending(now time.Time) bool {
	return now.Sub(time.Unix(c.LastConnection, 0)) > PendingThreshold
}
