// Package memory provides in-process implementations of the repository
// interfaces, used by tests and by the "memory" database driver for local
// development. Each store guards its maps with a sync.RWMutex and applies
// the same derivations as the postgres stores before every write.
package memory

import (
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func sameOrBefore(a, b time.Time) bool {
	return dayKey(a) <= dayKey(b)
}
