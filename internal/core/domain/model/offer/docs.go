// Package offer provides the Offer aggregate and its append-only event ledger.
//
// An Offer is created for one rider when an order is dispatched and stays open for TTL.
// Either side may counter it, which changes the fare and reopens it for CounterTTL.
// At most one offer per order ever becomes accepted; that invariant is enforced by the
// order-level lock in the acceptance flow, not here.
//
// Every action on an offer appends an Event (sent, countered, accepted, declined, expired).
// Events are never mutated or deleted and carry the order and rider they concern, so
// decline history outlives the offer rows removed by the expiration sweep.
package offer
