package scoring

import "github.com/pveiga/digitduel/internal/model"

// Service scores guesses against secrets. It is pure and stateless.
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Score compares a guess to a secret and returns the number of digits
// present at the wrong position (correctDigits) and the number matching
// both value and position (correctPositions).
//
// The single pass is sound only because secrets and guesses are validated
// to contain no repeated digits. If that invariant is ever relaxed, this
// must be revised to avoid double-counting matched digits.
func (s *Service) Score(guess, secret string) (correctDigits, correctPositions int) {
	for i := 0; i < model.CodeLength; i++ {
		if guess[i] == secret[i] {
			correctPositions++
			continue
		}
		for j := 0; j < model.CodeLength; j++ {
			if guess[i] == secret[j] {
				correctDigits++
				break
			}
		}
	}
	return correctDigits, correctPositions
}

// IsWinning reports whether a score ends the game
func (s *Service) IsWinning(correctPositions int) bool {
	return correctPositions == model.CodeLength
}
