package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConnectionPending(t *testing.T) {
	now := time.Date(2020, 2, 1, 10, 15, 0, 0, time.UTC)

	tests := []struct {
		name    string
		age     time.Duration
		pending bool
	}{
		{"recent", 299 * time.Second, false},
		{"exact threshold", 300 * time.Second, false},
		{"just over threshold", 301 * time.Second, true},
		{"long silent", 24 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := Camera{LastConnection: now.Add(-tt.age).Unix()}
			assert.Equal(t, tt.pending, camera.ConnectionPending(now))
		})
	}
}
