package domain

import "time"

// AttendanceRecord is one QR scan for one user at one event. At most one
// record exists per (event, user, scan type); the database enforces it.
// Records are immutable once created.
type AttendanceRecord struct {
	ID            uint      `json:"id"`
	EventID       uint      `json:"event_id"`
	UserID        uint      `json:"user_id"`
	OrganizerID   *uint     `json:"organizer_id,omitempty"`
	ScanType      ScanType  `json:"scan_type"`
	Timestamp     time.Time `json:"timestamp"`
	PointsAwarded int       `json:"points_awarded"`
	Notes         string    `json:"notes,omitempty"`
}

// RecordedScanSet is the set of scan types already recorded for one
// (event, user) pair.
type RecordedScanSet map[ScanType]bool

// IsFullyAttended reports whether every enabled scan type has a record.
// Disabled types are ignored entirely.
func IsFullyAttended(event *Event, recorded RecordedScanSet) bool {
	for _, t := range AllScanTypes {
		if event.Slot(t).Enabled && !recorded[t] {
			return false
		}
	}
	return true
}

// NextEligibleScanType returns the first scan type in canonical order that
// is enabled, not yet recorded, and currently inside its window. The second
// return is false when nothing qualifies.
func NextEligibleScanType(event *Event, recorded RecordedScanSet, now time.Time) (ScanType, bool) {
	for _, t := range AllScanTypes {
		if event.Slot(t).Enabled && !recorded[t] && event.CanScan(t, now) {
			return t, true
		}
	}
	return "", false
}
