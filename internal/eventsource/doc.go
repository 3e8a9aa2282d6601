// Package eventsource decodes collision events from files.
//
// Supported formats:
//   - HepMC2 ASCII (IO_GenEvent), decoded with go-hep
//   - JSON lines, one event object per line
//
// Files may be gzip or xz compressed; compression is detected from magic bytes.
// Inputs are paths or doublestar patterns (data/**/*.hepmc.xz), expanded and sorted
// so that a run always sees events in the same order.
//
//	Expand(patterns) ──► []path ──► Chain ──► Open(path) ──► hepmcSource | jsonlSource
//	                                                          ▲
//	                                               decompress (gzip, xz, none)
package eventsource
