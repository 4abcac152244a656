package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleUser      Role = "USER"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile carries the role and the cached running point total. The total
// is only ever updated through the points service, which writes it together
// with a ledger entry in one transaction.
type UserProfile struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Role        Role   `json:"role"`
	Phone       string `json:"phone,omitempty"`
	Course      string `json:"course,omitempty"`
	YearLevel   *uint  `json:"year_level,omitempty"`
	TotalPoints int    `json:"total_points"`
}

func (p *UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p *UserProfile) IsOrganizer() bool {
	return p.Role == RoleOrganizer
}

func (p *UserProfile) CanManageEvents() bool {
	return p.IsAdmin()
}
