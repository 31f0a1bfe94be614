package service

// ThrottlePolicy decides whether the broadcast loop should pause after a
// successful send. successCount is the number of successes so far.
type ThrottlePolicy interface {
	ShouldPause(successCount int) bool
}

// EveryN pauses after every Nth successful send. Zero or negative never pauses.
type EveryN int

func (n EveryN) ShouldPause(successCount int) bool {
	return n > 0 && successCount > 0 && successCount%int(n) == 0
}
