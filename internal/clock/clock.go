package clock

import "time"

// Clock abstracts time.Now so that components stamping timestamps can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
}
