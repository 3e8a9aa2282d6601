// Package binning holds the centrality-binned histogram records of the analysis.
//
// A Set is an ordered list of Bin records, one per centrality upper edge:
//
//	edges:   5      10      20      30
//	bins:  [0,5) [5,10) [10,20) [20,30)    c >= 30: unmatched
//
// Lookup uses upper-bound semantics: the selected bin is the first one whose upper
// edge is strictly greater than the centrality value.
//
// Each Bin exclusively owns one hbook.H1D and one Counter. Membership of the set is
// fixed at construction; only the histogram and counter contents change.
package binning
