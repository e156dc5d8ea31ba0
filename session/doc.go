// Package session tracks per-call conversation state keyed by the telephony
// call identifier. The Store interface decouples consumers from concrete
// storage; InMemoryStore is the default implementation with idle-timeout
// eviction.
//
// Add additional backends (Redis, Postgres, etc.) alongside InMemoryStore
// without changing any calling code – only the wiring layer needs to decide
// which implementation to instantiate.
package session
