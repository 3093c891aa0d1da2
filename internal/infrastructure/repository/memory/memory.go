// Package memory holds mutex-guarded in-memory repository implementations.
// They back the usecase tests and local development without a database.
package memory

import (
	"fmt"
	"sync/atomic"
)

var sequence atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, sequence.Add(1))
}
