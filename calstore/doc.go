// Package calstore houses concrete implementations of calendar.Store. The
// interface itself (and the Meeting struct) live in the calendar package to
// centralize domain contracts; keeping only implementations here prevents
// higher level packages from depending on concrete storage.
//
// Backends:
//
//   - MemoryStore: volatile, for tests and demos
//   - FileStore: JSON array on disk, write-through, single writer
//   - sqlite sub-package: embedded transactional backend
package calstore
