package clock

import "time"

// Clock abstracts wall-clock reads so services can be tested at a fixed time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
