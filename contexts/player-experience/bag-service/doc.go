// Package bagservice implements the player bag write/read split inside Dewey.
//
// Layering:
// - domain: bag entities, invariants, errors
// - application: commands (publish-only), queries (read-model only), workers (projector)
// - ports: stable boundaries for the event log, read-model store, dedup, catalog
// - adapters: concrete mongo, redis, memory, alerting, and HTTP implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Commands never write the read model; they validate, publish, acknowledge.
// - The projector is the only writer of bag documents.
// - Do not import other context adapters into domain/application.
package bagservice
