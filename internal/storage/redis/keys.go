package redis

import (
	"fmt"

	"github.com/pveiga/digitduel/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "digitduel"

// matchKey returns the Redis key for a MatchRecord
func matchKey(id model.SessionID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchIndexKey returns the Redis key for the time-ordered match index
func matchIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}
