// Package services contains the domain services of the dispatch core: the
// access policy gating every role-sensitive operation, the lazy-invalidation
// dispatch queue matching unassigned orders to shared-pool couriers, the ETA
// calculator and the incident escalation chain. Services hold no persistent
// state of their own; they operate on aggregates and talk to collaborators
// through narrow, locally declared interfaces.
package services
