// Package analysis implements the centrality-binned charged-particle pseudorapidity
// measurement in Pb-Pb collisions (ALICE_2013_I1225979).
//
// Lifecycle:
//
//	┌────────────┐   ┌──────────────────────────────┐   ┌────────────┐
//	│   New      │──►│ Analyze (once per event)      │──►│  Finalize  │
//	│ book bins  │   │ 1. 2-of-3 trigger (VZERO, SPD)│   │ scale by   │
//	└────────────┘   │ 2. centrality estimator       │   │ 1 / sumW   │
//	                 │ 3. upper-bound bin lookup     │   └────────────┘
//	                 │ 4. fill sow + charged eta     │
//	                 └──────────────────────────────┘
//
// All projections are injected through Projections so the accumulator can be driven
// by any event source, including synthetic events in tests.
//
// An Accumulator is not safe for concurrent use. Parallel runs use one accumulator
// per worker and combine them with Merge before Finalize.
package analysis
