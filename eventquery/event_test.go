package eventquery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregoryhugaerts/mini-siem/eventquery"
)

func Test_BuildEvent(t *testing.T) {
	timestamp := time.Unix(1643723400, 0).UTC()

	event, err := eventquery.BuildEvent(42, timestamp, "auth", []byte(`{"user": {"name": "bob"}}`))
	require.NoError(t, err)

	assert.Equal(t, int64(42), event.ID)
	assert.Equal(t, timestamp, event.Timestamp)
	assert.Equal(t, "auth", event.Source)
	assert.JSONEq(t, `{"user": {"name": "bob"}}`, string(event.PayloadJSON))
}

func Test_BuildEvent_WithInvalidPayloadJSON(t *testing.T) {
	_, err := eventquery.BuildEvent(1, time.Now(), "auth", []byte(`{"user": `))
	assert.ErrorIs(t, err, eventquery.ErrInvalidPayloadJSON)
}

func Test_BuildEventWithEmptyPayload(t *testing.T) {
	event, err := eventquery.BuildEventWithEmptyPayload(1, time.Now(), "auth")
	require.NoError(t, err)

	assert.JSONEq(t, `{}`, string(event.PayloadJSON))
}
