// Package order provides the Order aggregate of the marketplace engine.
//
// The package includes:
//   - Order: a customer's delivery request with pickup, dropoff, item and suggested cost
//   - Status: the lifecycle state machine pending -> accepted | cancelled | expired
//
// Key business rules:
//   - An order has a rider if and only if it is accepted
//   - Accepted, cancelled and expired are final; every transition leaves pending
//   - The deadline (expiresAt) is set when the order is created
//   - Accept, Cancel and Expire on a resolved order fail with ErrOrderIsResolved
package order
