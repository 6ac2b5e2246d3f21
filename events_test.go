// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipReasonString(t *testing.T) {
	assert.Equal(t, "no challenge", SkipNoChallenge.String())
	assert.Equal(t, "scheme not supported", SkipUnsupportedScheme.String())
	assert.Equal(t, "no credentials", SkipNoCredentials.String())
	assert.Equal(t, "unknown", SkipReason(99).String())
}

func TestSlogEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	events := NewSlogEvents(logger)

	authority := Authority{Host: "example.com", Port: 80}
	events.SchemeSkipped(authority, "digest", SkipNoCredentials)
	events.SelectionDisabled("no scheme registry configured")
	events.SchemeCached(authority, "basic")
	events.SchemeEvicted(authority, "basic")

	out := buf.String()
	assert.Contains(t, out, "auth scheme skipped")
	assert.Contains(t, out, "no credentials")
	assert.Contains(t, out, "auth selection disabled")
	assert.Contains(t, out, "auth scheme cached")
	assert.Contains(t, out, "example.com:80")
}
