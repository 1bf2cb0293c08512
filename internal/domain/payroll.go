package domain

import "time"

type PayStatus string

const (
	PayStatusUnpaid PayStatus = "UNPAID"
	PayStatusPaid   PayStatus = "PAID"
)

// ValidTransition checks if a payment status transition is allowed.
// Only UNPAID->PAID is; PAID is terminal.
func (s PayStatus) ValidTransition(to PayStatus) bool {
	return s == PayStatusUnpaid && to == PayStatusPaid
}

// SalaryRecord is one monthly pay slip. Net is Base + Bonus - Deductions.
type SalaryRecord struct {
	ID            string     `json:"id"`
	PrincipalID   string     `json:"principal_id"`
	PrincipalName string     `json:"principal_name"`
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Base          float64    `json:"base"`
	Bonus         float64    `json:"bonus"`
	Deductions    float64    `json:"deductions"`
	Net           float64    `json:"net"`
	Status        PayStatus  `json:"status"`
	IssuedAt      time.Time  `json:"issued_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}
