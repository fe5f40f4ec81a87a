// Package taic implements the core engine of a Task-Aware Interrupt
// Controller (TAIC): a memory-mapped virtual device that a guest operating
// system drives to allocate and free per-process scheduling queues, enqueue
// and dequeue runnable task handles, register external-device interrupt
// handlers, and route inter-process software interrupts between harts.
//
// # Architecture
//
// A [TAIC] owns a fixed-size array of [GlobalQueue] instances, each of which
// owns a fixed-size array of [LocalQueue] instances plus one [ExtIntrSlots]
// table and one [SoftIntrSlots] table. Every externally visible MMIO access
// is a single 8-byte word, but several semantic operations (allocating a
// queue, registering a software-interrupt receiver) span multiple words; the
// engine stitches these together using carry registers sequenced by a small
// family of lock-free compare-and-swap state machines (see [CASState]).
//
// # MMIO contract
//
// [TAIC.ReadWord] and [TAIC.WriteWord] implement the bit-exact address
// layout: the low page is the control page, every page after it is a
// per-local-queue page. Accesses are always one 8-byte word; an offset that
// matches no operation is rejected and logged. See [DecodeAddress] for the
// decomposition.
//
// # Thread safety
//
// [TAIC.ReadWord] and [TAIC.WriteWord] are safe to call concurrently from
// any number of goroutines, each modelling one guest hart. The engine
// guarantees a total order only within a single state machine: the caller
// is responsible for ensuring that the two (or three) words of a multi-word
// protocol are issued by the same hart without an intervening write from
// another hart landing on the same state machine.
package taic
