package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time so allocation and audit timestamps are testable.
type Clock interface {
	Now() time.Time
}

// Module provides the system clock.
var Module = fx.Provide(NewSystem)

type systemClock struct{}

func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
