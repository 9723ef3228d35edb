// Package poller implements the ingestion pipeline.
//
// One cycle runs fetch -> validate -> store, triggered on wall-clock
// minute boundaries to match the feed's own update cadence. Cycles never
// overlap: if a cycle overruns into the next trigger, that trigger is
// skipped. All failures are cycle-scoped: logged, counted, and left for
// the next cycle to recover.
package poller
