package tablestore

// Result is the payload an *Async call delivers once its goroutine
// completes: exactly the (value, error) pair the synchronous call
// would have returned (spec.md §5 "a single-shot callback",
// SPEC_FULL.md §5a).
type Result[T any] struct {
	Value T
	Err   error
}

// runAsync launches fn on its own goroutine. The returned channel
// receives exactly one Result and is then closed; if cb is non-nil it
// is invoked first, on the same goroutine. Callers use whichever
// delivery style suits them — callback, channel receive, or both.
func runAsync[T any](fn func() (T, error), cb func(T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn()
		if cb != nil {
			cb(v, err)
		}
		ch <- Result[T]{Value: v, Err: err}
		close(ch)
	}()
	return ch
}
