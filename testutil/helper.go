// Package testutil provides shared fixtures for tests: event records with
// realistic JSON payloads keyed by generated ids.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/gregoryhugaerts/mini-siem/eventquery"
)

// GivenUniqueID generates a session/request id for use inside payloads.
func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenEvent builds an event record with the given payload, failing the test
// on invalid payload JSON.
func GivenEvent(t testing.TB, id int64, timestamp time.Time, source string, payload map[string]any) eventquery.Event {
	t.Helper()

	payloadJSON, err := jsoniter.ConfigFastest.Marshal(payload)
	require.NoError(t, err, "error in arranging test data")

	event, err := eventquery.BuildEvent(id, timestamp, source, payloadJSON)
	require.NoError(t, err, "error in arranging test data")

	return event
}

// GivenLoginEvent builds a typical auth event: a login attempt by a user
// with a session id and attempt counter in the payload.
func GivenLoginEvent(t testing.TB, id int64, user string, attempts int) eventquery.Event {
	t.Helper()

	return GivenEvent(t, id, time.Unix(1643723400, 0).UTC(), "auth", map[string]any{
		"user": map[string]any{
			"name":       user,
			"session_id": GivenUniqueID(t).String(),
		},
		"attempts": attempts,
		"tags":     []any{"login", "interactive"},
	})
}
