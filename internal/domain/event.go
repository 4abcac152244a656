package domain

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventMandatory EventType = "MANDATORY"
	EventOptional  EventType = "OPTIONAL"
)

// DefaultEventPoints is the point budget used when an event doesn't set one.
const DefaultEventPoints = 10

// TimeOfDay is a wall-clock time without a date, e.g. a 07:30 check-in start.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time.Parse -> %w", err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the wall-clock time to a calendar date in the given location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// SlotConfig is one scan type's window configuration on an event.
type SlotConfig struct {
	Enabled bool
	Start   *TimeOfDay
	End     *TimeOfDay
}

// WindowSlack widens the overall attendance window for ongoing events to
// absorb timezone skew between the server clock and event-local time.
type WindowSlack struct {
	Before time.Duration
	After  time.Duration
}

var DefaultWindowSlack = WindowSlack{Before: 12 * time.Hour, After: 24 * time.Hour}

type Event struct {
	ID             uint
	Title          string
	Description    string
	OrganizationID *uint
	CreatedBy      uint
	Type           EventType

	// EventDate is the calendar date; StartDatetime/EndDatetime are derived
	// from it at 00:00:00 / 23:59:59 only when not explicitly set.
	EventDate     *time.Time
	StartDatetime *time.Time
	EndDatetime   *time.Time

	Venue                string
	Capacity             *uint
	RegistrationDeadline *time.Time
	Points               *int
	IsPublic             bool
	Pinned               bool

	MorningIn    SlotConfig
	MorningOut   SlotConfig
	AfternoonIn  SlotConfig
	AfternoonOut SlotConfig

	AttendanceWindowStart *time.Time
	AttendanceWindowEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Event) IsMandatory() bool {
	return e.Type == EventMandatory
}

// PointBudget returns the event's total point budget, defaulting when unset.
func (e *Event) PointBudget() int {
	if e.Points != nil {
		return *e.Points
	}
	return DefaultEventPoints
}

func (e *Event) Slot(t ScanType) SlotConfig {
	switch t {
	case ScanMorningIn:
		return e.MorningIn
	case ScanMorningOut:
		return e.MorningOut
	case ScanAfternoonIn:
		return e.AfternoonIn
	case ScanAfternoonOut:
		return e.AfternoonOut
	}
	return SlotConfig{}
}

func (e *Event) EnabledScanTypes() []ScanType {
	var enabled []ScanType
	for _, t := range AllScanTypes {
		if e.Slot(t).Enabled {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

func (e *Event) HasAnyScanEnabled() bool {
	return len(e.EnabledScanTypes()) > 0
}

// PerScanAward divides the point budget evenly across enabled scan types,
// rounding down. With budget 10 and 3 slots each scan is worth 3 and the
// remaining point is intentionally not awarded.
func (e *Event) PerScanAward() int {
	n := len(e.EnabledScanTypes())
	if n == 0 {
		return 0
	}
	return e.PointBudget() / n
}

// DeriveTimestamps fills StartDatetime/EndDatetime from EventDate. Explicitly
// set timestamps are never overwritten.
func (e *Event) DeriveTimestamps() {
	if e.EventDate == nil {
		return
	}
	d := *e.EventDate
	if e.StartDatetime == nil {
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		e.StartDatetime = &start
	}
	if e.EndDatetime == nil {
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
		e.EndDatetime = &end
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (e *Event) IsPast(now time.Time) bool {
	if e.EndDatetime != nil {
		return now.After(*e.EndDatetime)
	}
	if e.EventDate != nil {
		// Date-only fallback: past once the calendar date is behind today.
		endOfDay := time.Date(e.EventDate.Year(), e.EventDate.Month(), e.EventDate.Day(),
			23, 59, 59, 0, e.EventDate.Location())
		return now.After(endOfDay) && !sameDate(*e.EventDate, now)
	}
	return false
}

func (e *Event) IsOngoing(now time.Time) bool {
	if e.IsPast(now) {
		return false
	}
	if e.StartDatetime != nil && e.EndDatetime != nil {
		return !now.Before(*e.StartDatetime) && !now.After(*e.EndDatetime)
	}
	if e.EventDate != nil {
		return sameDate(*e.EventDate, now)
	}
	return false
}

func (e *Event) IsUpcoming(now time.Time) bool {
	if e.IsOngoing(now) || e.IsPast(now) {
		return false
	}
	if e.StartDatetime != nil {
		return now.Before(*e.StartDatetime)
	}
	if e.EventDate != nil {
		return e.EventDate.After(now)
	}
	return false
}

// scanDate is the calendar date slot windows are anchored to.
func (e *Event) scanDate(now time.Time) time.Time {
	if e.EventDate != nil {
		return *e.EventDate
	}
	if e.StartDatetime != nil {
		return *e.StartDatetime
	}
	return now
}

// SlotWindow resolves the concrete window for a scan type: an explicit
// start/end pair is enforced exactly, a lone start opens a one-hour window,
// and no times at all means unbounded (the caller still gates on ongoing).
func (e *Event) SlotWindow(t ScanType, now time.Time) (start, end time.Time, bounded bool) {
	slot := e.Slot(t)
	date := e.scanDate(now)

	switch {
	case slot.Start != nil && slot.End != nil:
		return slot.Start.On(date), slot.End.On(date), true
	case slot.Start != nil:
		s := slot.Start.On(date)
		return s, s.Add(time.Hour), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// CanScan reports whether a scan of the given type is allowed right now:
// the type must be enabled, the event ongoing, and now inside the slot window.
func (e *Event) CanScan(t ScanType, now time.Time) bool {
	if !e.Slot(t).Enabled {
		return false
	}
	if !e.IsOngoing(now) {
		return false
	}
	start, end, bounded := e.SlotWindow(t, now)
	if !bounded {
		return true
	}
	return !now.Before(start) && !now.After(end)
}

// AttendanceWindowBounds returns the overall scanning window: the explicit
// override if set, else the event date's full day, else the event timestamps.
func (e *Event) AttendanceWindowBounds() (start, end *time.Time) {
	start = e.AttendanceWindowStart
	end = e.AttendanceWindowEnd
	if start == nil && e.EventDate != nil {
		d := *e.EventDate
		s := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		start = &s
	}
	if end == nil && e.EventDate != nil {
		d := *e.EventDate
		x := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
		end = &x
	}
	if start == nil {
		start = e.StartDatetime
	}
	if end == nil {
		end = e.EndDatetime
	}
	return start, end
}

// WithinAttendanceWindow checks the overall scan window. For ongoing events
// whose date is today, or tomorrow with the server clock already past noon,
// the slack band widens the window to absorb timezone skew.
func (e *Event) WithinAttendanceWindow(now time.Time, slack WindowSlack) bool {
	start, end := e.AttendanceWindowBounds()
	if start == nil || end == nil {
		// No window configured; fall through to per-type slot windows.
		return true
	}

	if e.IsOngoing(now) && e.EventDate != nil {
		tomorrow := now.AddDate(0, 0, 1)
		if sameDate(*e.EventDate, now) || (sameDate(*e.EventDate, tomorrow) && now.Hour() >= 12) {
			beforeStart := start.Sub(now)
			afterEnd := now.Sub(*end)
			if beforeStart <= slack.Before && afterEnd <= slack.After {
				return true
			}
		}
	}

	return !now.Before(*start) && !now.After(*end)
}

// CanScanAttendance is the coarse gate for the scanner UI: some scan type is
// enabled and either the event is ongoing or the overall window is open.
func (e *Event) CanScanAttendance(now time.Time, slack WindowSlack) bool {
	if !e.HasAnyScanEnabled() {
		return false
	}
	if e.IsOngoing(now) {
		return true
	}
	return e.WithinAttendanceWindow(now, slack)
}

func (e *Event) IsFull(registeredCount int) bool {
	if e.Capacity == nil {
		return false
	}
	return registeredCount >= int(*e.Capacity)
}
