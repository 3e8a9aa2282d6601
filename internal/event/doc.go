// Package event defines the read-only event view handed to the analysis.
//
// An Event is produced by an eventsource decoder (HepMC2, JSON lines) and carries:
//   - Weight: the generator event weight
//   - Particles: the particle record in source-declared order
//   - Centrality / ImpactParameter: optional heavy-ion information (NaN when absent)
//
// Selections and centrality estimators read events; nothing downstream mutates them.
package event
