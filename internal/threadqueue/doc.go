// Package threadqueue funnels work produced on many goroutines onto a single
// draining goroutine, preserving enqueue order.
//
// [Queue] is a FIFO with a Listening, Draining and Completed lifecycle: a
// listener drains items until the queue has been completed and is empty.
// [Pump] builds on it to run a function in the background while its posted
// continuations execute, in post order, on the goroutine that called Run.
// [Bridge] wires an event stream through a Pump so sinks observe events in
// publication order on the caller's goroutine.
package threadqueue
