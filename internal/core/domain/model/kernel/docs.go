// Package kernel provides the shared value objects of the marketplace domain.
//
// The package includes:
//   - UUID: identifier value object for orders, offers, riders and accounts
//   - Location: a validated WGS84 latitude/longitude pair with great-circle distance
//   - Fare: a non-negative money amount kept at two decimal places
//
// Values are immutable and validated at construction; a zero value fails Validate.
package kernel
