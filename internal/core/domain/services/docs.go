// Package services holds the pure domain services of the matching engine.
//
// The package includes:
//   - FindCandidates: the geo filter ranking nearby available riders by idle time
//   - FarePolicy: the supply/demand multiplier hook, flat in its only implementation
//   - OrderDispatcher: builds the offers for a pending order from a rider pool
//
// Nothing here touches storage, clocks or notifications; callers pass in the
// snapshot and the current time.
package services
