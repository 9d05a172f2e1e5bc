package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment grants a user access to a course. One row per (user, course).
type Enrollment struct {
	EnrollmentID int64     `json:"enrollment_id"`
	UserID       uuid.UUID `json:"user_id"`
	CourseID     uuid.UUID `json:"course_id"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}
