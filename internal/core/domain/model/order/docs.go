// Package order contains the Order aggregate root and its satellites: the
// chronological DeliveryStatus state machine and the 1:1 Incident record.
// The aggregate enforces every lifecycle invariant that does not need a
// collaborator; role gating and queue feeding live in the domain services
// and use-case layers.
package order
