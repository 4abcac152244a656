package domain

import "time"

type ExcuseStatus string

const (
	ExcusePending  ExcuseStatus = "PENDING"
	ExcuseApproved ExcuseStatus = "APPROVED"
	ExcuseRejected ExcuseStatus = "REJECTED"
)

// ExcuseScope is the scan type an excuse covers, or ExcuseScopeAll for every
// enabled type on the event.
type ExcuseScope string

const (
	ExcuseScopeMorningIn    = ExcuseScope(ScanMorningIn)
	ExcuseScopeMorningOut   = ExcuseScope(ScanMorningOut)
	ExcuseScopeAfternoonIn  = ExcuseScope(ScanAfternoonIn)
	ExcuseScopeAfternoonOut = ExcuseScope(ScanAfternoonOut)
	ExcuseScopeAll          = ExcuseScope("ALL")
)

func (s ExcuseScope) IsValid() bool {
	if s == ExcuseScopeAll {
		return true
	}
	return ScanType(s).IsValid()
}

// Excuse is a request to be credited attendance for a mandatory event
// without scanning. Pending excuses move to approved or rejected exactly
// once; both outcomes are terminal.
type Excuse struct {
	ID          uint         `json:"id"`
	EventID     uint         `json:"event_id"`
	UserID      uint         `json:"user_id"`
	Scope       ExcuseScope  `json:"scope"`
	Reason      string       `json:"reason"`
	ProofLink   string       `json:"proof_link,omitempty"`
	Status      ExcuseStatus `json:"status"`
	ReviewedBy  *uint        `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty"`
	ReviewNotes string       `json:"review_notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (e *Excuse) IsPending() bool {
	return e.Status == ExcusePending
}

// Covers reports whether the excuse applies to the given scan type.
func (e *Excuse) Covers(t ScanType) bool {
	if e.Scope == ExcuseScopeAll {
		return true
	}
	return ExcuseScope(t) == e.Scope
}

// CoveredScanTypes expands the scope against the event's enabled slots.
func (e *Excuse) CoveredScanTypes(event *Event) []ScanType {
	var covered []ScanType
	for _, t := range AllScanTypes {
		if event.Slot(t).Enabled && e.Covers(t) {
			covered = append(covered, t)
		}
	}
	return covered
}
