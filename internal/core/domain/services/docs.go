// Package services provides domain services that work across several aggregates
// of the delivery core and do not belong to any single one of them.
//
// The package includes:
//   - IDGenerator: collision-checked tour ids and check-digit barcodes
//   - Sequencer: contiguous 1..N ordering of the commands of a tour
//   - LoadingInspector: comparison of a driver's loaded snapshot with the tour
package services
