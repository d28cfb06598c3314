package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTriggerInfo_Daily(t *testing.T) {
	ref := time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC)

	info, err := GetTriggerInfo("@daily", ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC), info.Next)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), info.Last)
	assert.Equal(t, 10*time.Hour+30*time.Minute, info.TimeSinceLast)
	assert.Equal(t, 13*time.Hour+30*time.Minute, info.TimeUntilNext)
	assert.Equal(t, "@daily", info.Expression)
}

func TestGetTriggerInfo_FiveField(t *testing.T) {
	ref := time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC)

	info, err := GetTriggerInfo("0 6 * * *", ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 6, 16, 6, 0, 0, 0, time.UTC), info.Next)
	assert.Equal(t, time.Date(2023, 6, 15, 6, 0, 0, 0, time.UTC), info.Last)
}

func TestGetTriggerInfo_Invalid(t *testing.T) {
	_, err := GetTriggerInfo("not a cron", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
}
