package model

// CodeLength is the number of digits in a secret or guess
const CodeLength = 4

// IsValidCode reports whether s is a well-formed secret or guess:
// exactly four digits, numeric value in [1000, 9999], all digits distinct.
func IsValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	// No leading zero keeps the value in [1000, 9999]
	if s[0] == '0' {
		return false
	}
	var seen [10]bool
	for i := 0; i < CodeLength; i++ {
		d := s[i]
		if d < '0' || d > '9' {
			return false
		}
		if seen[d-'0'] {
			return false
		}
		seen[d-'0'] = true
	}
	return true
}

// Secret is a single-assignment holder for a player's secret code.
// Once committed the value can never change for the session's lifetime.
type Secret struct {
	value     string
	committed bool
}

// Commit sets the secret value. A second commit always fails with
// ErrSecretAlreadySet, regardless of the value supplied.
func (s *Secret) Commit(value string) error {
	if s.committed {
		return ErrSecretAlreadySet
	}
	if !IsValidCode(value) {
		return ErrInvalidSecret
	}
	s.value = value
	s.committed = true
	return nil
}

// IsSet reports whether a value has been committed
func (s *Secret) IsSet() bool {
	return s.committed
}

// Value returns the committed secret, or "" if none has been committed
func (s *Secret) Value() string {
	return s.value
}
