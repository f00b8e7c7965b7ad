package utils

import (
	"errors"
	"time"

	"github.com/hortaviva/community-garden/internal/model"
)

// ErrNotPositive is returned for amounts that must be greater than
// zero (seed and tool stock, usage quantities).
var ErrNotPositive = errors.New("amount must be positive")

// ErrUnderage is returned when a person's birth date makes them
// younger than the minimum age for registration.
var ErrUnderage = errors.New("person must be at least 18 years old")

// MustBePositive returns ErrNotPositive unless amount > 0.
func MustBePositive(amount int) error {
	if amount <= 0 {
		return ErrNotPositive
	}
	return nil
}

// MustRepresentAnAdult checks that birthDate is at least 18 years
// before today.
func MustRepresentAnAdult(birthDate model.Date) error {
	cutoff := time.Now().UTC().AddDate(-18, 0, 0)
	if birthDate.After(cutoff) {
		return ErrUnderage
	}
	return nil
}
