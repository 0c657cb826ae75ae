// Package pipe provides a pull-based streaming pipeline abstraction: a
// single generic suspended-computation type unifying producers, consumers,
// and transformers of sequential data, composable by fusion into longer
// pipelines, with deterministic and prompt release of acquired resources
// regardless of where in the pipeline consumption stops.
//
// A Pipe is in exactly one of five states: terminal, pending ambient
// effect, push-back of an unconsumed input, awaiting input, or holding one
// emitted output together with its finalizer. Pipelines are lazy and
// demand-driven — a producer makes progress only when a downstream stage
// pulls, so terminating a consumer early is how a producer is cancelled,
// and the fusion engine runs the in-flight finalizer at that moment.
//
// # Shapes
//
//   - Source: produces values, consumes nothing
//   - Sink: consumes values, finishes with a result
//   - Conduit: transforms values
//
// # Composition
//
//   - Through: source + conduit = source
//   - Into: conduit + sink = sink
//   - Fuse: conduit + conduit = conduit
//   - ZipSources / ZipSinks: parallel (lockstep) composition
//
// # Driving
//
//   - Connect: drain fully, always release
//   - ConnectResume: drain until the sink finishes, hand back the rest of
//     the producer together with its outstanding finalizer
//   - ConnectFinalize: resume a partial drain, then always release
//
// Every ConnectResume must eventually be paired with a finalization;
// finalizing twice is a safe no-op.
//
// # Usage
//
//	src := pipe.FromSlice([]int{1, 2, 3, 4, 5})
//	evens := pipe.Through(src, pipe.Filter(func(n int) bool { return n%2 == 0 }))
//	got, err := pipe.Connect(ctx, evens, pipe.SinkSlice[int]())
//
// Execution is strictly single-threaded and cooperative: the only
// suspension point is an ambient effect, which receives the driving
// context. The package imposes no concurrency of its own.
package pipe
