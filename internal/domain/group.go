package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	GroupStatusActive    = "active"
	GroupStatusInactive  = "inactive"
	GroupStatusSuspended = "suspended"
	GroupStatusClosed    = "closed"
)

// Group is a cooperative savings/lending unit. CurrentBalance is the running
// balance mutated by ledger appends; updates to it are serialised by the
// transaction repository.
type Group struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	Status             string    `json:"status" db:"status"`
	CurrentBalance     Money     `json:"current_balance" db:"current_balance"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

// Member is an individual participant who can save, borrow, and receive
// dividends.
type Member struct {
	ID           uuid.UUID `json:"id" db:"id"`
	GroupID      uuid.UUID `json:"group_id" db:"group_id"`
	MemberNumber string    `json:"member_number" db:"member_number"`
	FullName     string    `json:"full_name" db:"full_name"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MemberSavings is the aggregated savings of one member across a set of
// collection months. It is the per-member input to dividend allocation.
type MemberSavings struct {
	MemberID uuid.UUID `json:"member_id" db:"member_id"`
	Total    Money     `json:"total" db:"total"`
}
