// Package clock provides a minimal time source abstraction.
//
// Throttle deadlines and token expiries are all derived from "now", so every
// component takes a Clocker instead of calling time.Now directly. Tests swap
// in a fixed clock to step through TTL windows deterministically.
package clock
