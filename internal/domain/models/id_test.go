package models

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeIDIsEpochMillis(t *testing.T) {
	before := time.Now().UnixMilli()
	id := TimeID()
	after := time.Now().UnixMilli()

	millis, err := strconv.ParseInt(id, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)
}

func TestOrderIDShape(t *testing.T) {
	id := OrderID()
	require.Len(t, id, 9)
	assert.Equal(t, "ORD", id[:3])

	_, err := strconv.Atoi(id[3:])
	assert.NoError(t, err)
}

func TestTimestampIsRFC3339UTC(t *testing.T) {
	stamp := Timestamp()
	parsed, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}
