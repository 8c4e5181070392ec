// Package clock wraps time.Now behind a stub point so tests can pin
// timestamps on workflow state transitions and progress events.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
