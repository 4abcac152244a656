package response

import "github.com/campus-pulse/pulse-api/internal/domain"

type QRCodeResponse struct {
	Token     string `json:"token"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type ScanResponse struct {
	Message       string                  `json:"message"`
	Record        domain.AttendanceRecord `json:"record"`
	StudentID     uint                    `json:"student_id"`
	StudentName   string                  `json:"student_name"`
	PointsAwarded int                     `json:"points_awarded"`
	FullyAttended bool                    `json:"fully_attended"`
}
