// Package selection provides the particle selections ("projections") the analysis
// consumes.
//
// Kinematic cuts are written in the expr language and compiled once at setup:
//
//	eta > 2.8 && eta < 5.1 && pt > 0.1
//	abseta < 1.0 && pt > 0.15
//
// Variables available to a cut: eta, abseta, pt, charge, abscharge, pdg, status.
//
// Two selections are provided:
//   - ChargedFinalState: final-state particles with non-zero charge passing the cut
//   - PrimaryParticles: final-state particles of any charge passing the cut
package selection
