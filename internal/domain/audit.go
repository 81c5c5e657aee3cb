package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoanAuditEntry records a single loan status transition. Audit writes are
// best-effort: a failed write degrades observability but never rolls back
// the transition it describes.
type LoanAuditEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	LoanID    uuid.UUID `json:"loan_id" db:"loan_id"`
	OldStatus string    `json:"old_status" db:"old_status"`
	NewStatus string    `json:"new_status" db:"new_status"`
	Actor     string    `json:"actor" db:"actor"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
