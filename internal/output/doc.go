// Package output writes the results of a finalized analysis.
//
// Writer produces, in the output directory:
//   - ALICE_2013_I1225979.yoda: the eta histograms and sum-of-weights counters
//   - summary.yaml: run id, inputs, outcome tallies, per-bin figures, warnings
//     and a HighwayHash fingerprint of the YODA payload
//   - d01-x01-yNN.png: one plot per centrality bin, when plots are enabled
//
// The YODA payload depends only on the analysed events, so two runs over the
// same inputs produce the same fingerprint whatever the worker count.
package output
