// Package adapter exposes an ssocache.Cache through two non-blocking calling
// conventions.
//
// [Callback] takes a completion function per call:
//
//	cb, _ := adapter.NewCallback[string](store, adapter.WithTimeout(2*time.Second))
//	cb.Get(requestID, func(state string, found bool, err error) {
//	    // runs once, on its own goroutine
//	})
//
// [Async] returns a [Future]:
//
//	a, _ := adapter.NewAsync[string](store)
//	res, err := a.GetAsync(requestID).Await(ctx)
//	if err == nil && !res.Found {
//	    // unknown or expired request id
//	}
//
// Both report exactly what the cache reported. Absence stays a false Found
// flag and is never turned into an error.
package adapter
