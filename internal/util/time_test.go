package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone Asia/Shanghai", timezone: "Asia/Shanghai"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
		{name: "empty timezone defaults to Local", timezone: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestTimeProvider_ClockAndLocation(t *testing.T) {
	tp, err := NewTimeProvider("Asia/Shanghai")
	require.NoError(t, err)

	fixed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tp.SetClock(func() time.Time { return fixed })

	now := tp.Now()
	assert.True(t, now.Equal(fixed))
	assert.Equal(t, "Asia/Shanghai", now.Location().String())
	assert.Equal(t, "2024-03-01 08:00", tp.FormatNow("2006-01-02 15:04"))
	assert.Equal(t, "08:00", tp.Format(fixed, "15:04"))
}

func TestTimeProvider_SetTimezoneKeepsOldOnError(t *testing.T) {
	tp, err := NewTimeProvider("UTC")
	require.NoError(t, err)

	require.Error(t, tp.SetTimezone("Mars/Olympus"))
	assert.Equal(t, time.UTC, tp.Location())
}

func TestTimeProvider_Concurrency(t *testing.T) {
	tp, err := NewTimeProvider("UTC")
	require.NoError(t, err)

	var wg sync.WaitGroup
	zones := []string{"UTC", "Europe/London", "America/New_York"}
	for i := 0; i < 30; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = tp.SetTimezone(zones[i%len(zones)])
		}(i)
		go func() {
			defer wg.Done()
			_ = tp.Now()
			_ = tp.Format(time.Now(), time.RFC3339)
		}()
	}
	wg.Wait()
}
