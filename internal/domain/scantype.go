package domain

// ScanType identifies one of the four QR attendance scans an event can track.
type ScanType string

const (
	ScanMorningIn    ScanType = "MORNING_IN"
	ScanMorningOut   ScanType = "MORNING_OUT"
	ScanAfternoonIn  ScanType = "AFTERNOON_IN"
	ScanAfternoonOut ScanType = "AFTERNOON_OUT"
)

// AllScanTypes is the canonical scan order. NextEligibleScanType and excuse
// approval both walk this slice, so the priority is defined in one place.
var AllScanTypes = []ScanType{
	ScanMorningIn,
	ScanMorningOut,
	ScanAfternoonIn,
	ScanAfternoonOut,
}

func (t ScanType) IsValid() bool {
	switch t {
	case ScanMorningIn, ScanMorningOut, ScanAfternoonIn, ScanAfternoonOut:
		return true
	}
	return false
}

func (t ScanType) Label() string {
	switch t {
	case ScanMorningIn:
		return "Morning Time In"
	case ScanMorningOut:
		return "Morning Time Out"
	case ScanAfternoonIn:
		return "Afternoon Time In"
	case ScanAfternoonOut:
		return "Afternoon Time Out"
	}
	return string(t)
}

// IsTimeIn reports whether the scan is a check-in. The first check-in of the
// day flips a registration to attended.
func (t ScanType) IsTimeIn() bool {
	return t == ScanMorningIn || t == ScanAfternoonIn
}
