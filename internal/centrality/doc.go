// Package centrality provides centrality estimators.
//
// An Estimator maps an event to a percentile-like scalar. The convention is
// 0 = most central (head-on), 100 = most peripheral. Three methods exist:
//
//   - V0M: charged multiplicity in the forward and backward VZERO windows, mapped
//     through a Calibration (higher multiplicity = lower percentile)
//   - impact: the generator impact parameter, mapped through a Calibration
//   - recorded: the value stored in the event record by the producer
//
// Estimators return NaN when the event carries no usable information. NaN never
// matches a centrality bin.
package centrality
