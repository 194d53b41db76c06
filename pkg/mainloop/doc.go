// Package mainloop provides the designated main execution context: a loop
// that runs posted tasks one at a time, in FIFO order, on the goroutine
// that called Run.
//
// Goroutines have no identity in Go, so "being on the main context" is
// carried by the context.Context each task receives. OnMain reports true
// only for contexts derived from one handed out by the same loop, and only
// while that task is running. Work that wants the synchronous fast path
// must therefore thread the task's ctx through to the caller.
//
// A task ctx held after the task returns is no longer main. The mark cannot
// tell goroutines apart, though: a goroutine started by a task and handed
// its ctx still sees OnMain true until the task returns. Tasks must not
// pass their ctx to goroutines they spawn.
//
// Manual is a deterministic stand-in for tests and for embedding the loop
// inside another event loop.
package mainloop
