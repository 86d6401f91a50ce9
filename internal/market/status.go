package market

import "strings"

type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusPaid    PaymentStatus = "PAID"
	StatusFailed  PaymentStatus = "FAILED"
)

var validNext = map[PaymentStatus]map[PaymentStatus]bool{
	StatusPending: {StatusPaid: true, StatusFailed: true},
	StatusPaid:    {},
	StatusFailed:  {},
}

func CanTransition(from, to PaymentStatus) bool {
	return validNext[from][to]
}

// Terminal reports whether no further transition is allowed.
func (s PaymentStatus) Terminal() bool {
	return len(validNext[s]) == 0 && (s == StatusPaid || s == StatusFailed)
}

// ParseStatus normalizes a client-supplied status ("Paid", "paid", "PAID").
func ParseStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusPaid:
		return StatusPaid, true
	case StatusFailed:
		return StatusFailed, true
	}
	return "", false
}
