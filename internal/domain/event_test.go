package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func todPtr(hour, minute int) *TimeOfDay {
	return &TimeOfDay{Hour: hour, Minute: minute}
}

func intPtr(v int) *int {
	return &v
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("07:30")
	require.NoError(t, err)
	assert.Equal(t, 7, tod.Hour)
	assert.Equal(t, 30, tod.Minute)
	assert.Equal(t, "07:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("half past nine")
	assert.Error(t, err)
}

func TestEvent_PerScanAward(t *testing.T) {
	tests := []struct {
		name    string
		points  *int
		enabled []ScanType
		want    int
	}{
		{
			name:    "default budget single slot",
			enabled: []ScanType{ScanMorningIn},
			want:    10,
		},
		{
			name:    "default budget two slots",
			enabled: []ScanType{ScanMorningIn, ScanAfternoonOut},
			want:    5,
		},
		{
			name:    "default budget three slots rounds down",
			enabled: []ScanType{ScanMorningIn, ScanMorningOut, ScanAfternoonIn},
			want:    3,
		},
		{
			name:    "explicit budget four slots",
			points:  intPtr(100),
			enabled: []ScanType{ScanMorningIn, ScanMorningOut, ScanAfternoonIn, ScanAfternoonOut},
			want:    25,
		},
		{
			name: "no slots enabled awards nothing",
			want: 0,
		},
		{
			name:    "zero budget",
			points:  intPtr(0),
			enabled: []ScanType{ScanMorningIn},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{Points: tt.points}
			for _, st := range tt.enabled {
				switch st {
				case ScanMorningIn:
					event.MorningIn.Enabled = true
				case ScanMorningOut:
					event.MorningOut.Enabled = true
				case ScanAfternoonIn:
					event.AfternoonIn.Enabled = true
				case ScanAfternoonOut:
					event.AfternoonOut.Enabled = true
				}
			}

			assert.Equal(t, tt.want, event.PerScanAward())
			assert.Len(t, event.EnabledScanTypes(), len(tt.enabled))
		})
	}
}

func TestEvent_DeriveTimestamps(t *testing.T) {
	t.Run("fills both ends of the day", func(t *testing.T) {
		event := Event{EventDate: datePtr(2025, time.March, 10)}
		event.DeriveTimestamps()

		require.NotNil(t, event.StartDatetime)
		require.NotNil(t, event.EndDatetime)
		assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), *event.StartDatetime)
		assert.Equal(t, time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC), *event.EndDatetime)
	})

	t.Run("never overwrites explicit timestamps", func(t *testing.T) {
		explicit := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
		event := Event{
			EventDate:     datePtr(2025, time.March, 10),
			StartDatetime: timePtr(explicit),
		}
		event.DeriveTimestamps()

		assert.Equal(t, explicit, *event.StartDatetime)
		require.NotNil(t, event.EndDatetime)
		assert.Equal(t, 23, event.EndDatetime.Hour())
	})

	t.Run("no-op without a date", func(t *testing.T) {
		event := Event{}
		event.DeriveTimestamps()

		assert.Nil(t, event.StartDatetime)
		assert.Nil(t, event.EndDatetime)
	})
}

func TestEvent_SlotWindow(t *testing.T) {
	event := Event{
		EventDate: datePtr(2025, time.March, 10),
		MorningIn: SlotConfig{
			Enabled: true,
			Start:   todPtr(7, 0),
			End:     todPtr(9, 0),
		},
		MorningOut: SlotConfig{
			Enabled: true,
			Start:   todPtr(11, 30),
		},
		AfternoonIn: SlotConfig{Enabled: true},
	}
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	t.Run("explicit pair is enforced exactly", func(t *testing.T) {
		start, end, bounded := event.SlotWindow(ScanMorningIn, now)
		require.True(t, bounded)
		assert.Equal(t, time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC), end)
	})

	t.Run("lone start opens a one-hour window", func(t *testing.T) {
		start, end, bounded := event.SlotWindow(ScanMorningOut, now)
		require.True(t, bounded)
		assert.Equal(t, time.Date(2025, time.March, 10, 11, 30, 0, 0, time.UTC), start)
		assert.Equal(t, time.Hour, end.Sub(start))
	})

	t.Run("no times means unbounded", func(t *testing.T) {
		_, _, bounded := event.SlotWindow(ScanAfternoonIn, now)
		assert.False(t, bounded)
	})
}

func TestEvent_CanScan(t *testing.T) {
	event := Event{
		EventDate: datePtr(2025, time.March, 10),
		MorningIn: SlotConfig{
			Enabled: true,
			Start:   todPtr(7, 0),
			End:     todPtr(9, 0),
		},
		AfternoonIn: SlotConfig{Enabled: true},
	}
	event.DeriveTimestamps()

	tests := []struct {
		name     string
		scanType ScanType
		now      time.Time
		want     bool
	}{
		{
			name:     "inside window on event day",
			scanType: ScanMorningIn,
			now:      time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
			want:     true,
		},
		{
			name:     "before window opens",
			scanType: ScanMorningIn,
			now:      time.Date(2025, time.March, 10, 6, 59, 0, 0, time.UTC),
			want:     false,
		},
		{
			name:     "after window closes",
			scanType: ScanMorningIn,
			now:      time.Date(2025, time.March, 10, 9, 1, 0, 0, time.UTC),
			want:     false,
		},
		{
			name:     "unbounded slot accepts any time while ongoing",
			scanType: ScanAfternoonIn,
			now:      time.Date(2025, time.March, 10, 21, 0, 0, 0, time.UTC),
			want:     true,
		},
		{
			name:     "disabled slot never scans",
			scanType: ScanMorningOut,
			now:      time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC),
			want:     false,
		},
		{
			name:     "wrong day",
			scanType: ScanMorningIn,
			now:      time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, event.CanScan(tt.scanType, tt.now))
		})
	}
}

func TestEvent_Phases(t *testing.T) {
	event := Event{EventDate: datePtr(2025, time.March, 10)}
	event.DeriveTimestamps()

	assert.True(t, event.IsUpcoming(time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC)))
	assert.True(t, event.IsOngoing(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)))
	assert.True(t, event.IsPast(time.Date(2025, time.March, 11, 12, 0, 0, 0, time.UTC)))
}

func TestEvent_WithinAttendanceWindow(t *testing.T) {
	event := Event{
		EventDate: datePtr(2025, time.March, 10),
		MorningIn: SlotConfig{Enabled: true},
		AttendanceWindowStart: timePtr(time.Date(2025, time.March, 10, 7, 0, 0, 0, time.UTC)),
		AttendanceWindowEnd:   timePtr(time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)),
	}
	event.DeriveTimestamps()

	t.Run("inside the window", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
		assert.True(t, event.WithinAttendanceWindow(now, DefaultWindowSlack))
	})

	t.Run("slack admits early scans on the event day", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC)
		assert.True(t, event.WithinAttendanceWindow(now, DefaultWindowSlack))
	})

	t.Run("slack admits late scans on the event day", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC)
		assert.True(t, event.WithinAttendanceWindow(now, DefaultWindowSlack))
	})

	t.Run("zero slack closes the band", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC)
		assert.False(t, event.WithinAttendanceWindow(now, WindowSlack{}))
	})

	t.Run("no window configured falls through", func(t *testing.T) {
		open := Event{MorningIn: SlotConfig{Enabled: true}}
		now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
		assert.True(t, open.WithinAttendanceWindow(now, DefaultWindowSlack))
	})
}

func TestEvent_IsFull(t *testing.T) {
	capacity := uint(2)

	unlimited := Event{}
	assert.False(t, unlimited.IsFull(1000))

	capped := Event{Capacity: &capacity}
	assert.False(t, capped.IsFull(1))
	assert.True(t, capped.IsFull(2))
	assert.True(t, capped.IsFull(3))
}
