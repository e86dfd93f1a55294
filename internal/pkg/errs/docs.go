// Package errs is the engine's error taxonomy.
//
// Every category has a sentinel and a struct carrying the details:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: the caller
//     sent something it must correct (IsValidation reports all three)
//   - ObjectNotFoundError: an order, offer or rider ID matched nothing
//   - TransientError: a lock timeout, serialization failure or dropped connection;
//     the same request may succeed later
//
// Constructors come in pairs, with and without a cause. Callers classify with
// errors.Is against the sentinels, never by message, so adapters can wrap freely.
package errs
