package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFullyAttended(t *testing.T) {
	event := Event{
		MorningIn:   SlotConfig{Enabled: true},
		AfternoonIn: SlotConfig{Enabled: true},
	}

	assert.False(t, IsFullyAttended(&event, RecordedScanSet{}))
	assert.False(t, IsFullyAttended(&event, RecordedScanSet{ScanMorningIn: true}))
	assert.True(t, IsFullyAttended(&event, RecordedScanSet{
		ScanMorningIn:   true,
		ScanAfternoonIn: true,
	}))

	// Records for disabled types don't count toward anything.
	assert.False(t, IsFullyAttended(&event, RecordedScanSet{
		ScanMorningIn:  true,
		ScanMorningOut: true,
	}))
}

func TestIsFullyAttended_NoSlotsEnabled(t *testing.T) {
	event := Event{}

	// Vacuously complete; callers gate on HasAnyScanEnabled separately.
	assert.True(t, IsFullyAttended(&event, RecordedScanSet{}))
}

func TestNextEligibleScanType(t *testing.T) {
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

	t.Run("returns first open unrecorded type in canonical order", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
		next, ok := NextEligibleScanType(&event, RecordedScanSet{}, now)
		require.True(t, ok)
		assert.Equal(t, ScanMorningIn, next)
	})

	t.Run("skips recorded types", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
		next, ok := NextEligibleScanType(&event, RecordedScanSet{ScanMorningIn: true}, now)
		require.True(t, ok)
		assert.Equal(t, ScanAfternoonIn, next)
	})

	t.Run("skips types outside their window", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
		next, ok := NextEligibleScanType(&event, RecordedScanSet{}, now)
		require.True(t, ok)
		assert.Equal(t, ScanAfternoonIn, next)
	})

	t.Run("nothing eligible when everything is recorded", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
		_, ok := NextEligibleScanType(&event, RecordedScanSet{
			ScanMorningIn:   true,
			ScanAfternoonIn: true,
		}, now)
		assert.False(t, ok)
	})
}

func TestScanType(t *testing.T) {
	assert.True(t, ScanMorningIn.IsValid())
	assert.False(t, ScanType("LUNCH").IsValid())

	assert.True(t, ScanMorningIn.IsTimeIn())
	assert.True(t, ScanAfternoonIn.IsTimeIn())
	assert.False(t, ScanMorningOut.IsTimeIn())
	assert.False(t, ScanAfternoonOut.IsTimeIn())

	assert.Equal(t, "Morning Time In", ScanMorningIn.Label())
}
