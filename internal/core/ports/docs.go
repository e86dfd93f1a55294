// Package ports defines the contracts between the matching engine's core and its adapters:
// repositories and the unit of work on the storage side, and the notifier, contact book,
// dispatch queue and clock on the collaborator side.
package ports
