// Package rider provides the Rider aggregate: the directory entry the dispatcher
// consults when looking for couriers near a pickup point.
package rider
