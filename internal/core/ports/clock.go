package ports

import "time"

// Clock is the engine's only source of the current time.
type Clock interface {
	Now() time.Time
}
