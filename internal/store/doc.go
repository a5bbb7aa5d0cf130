// Package store keeps a local SQLite history of valiblox runs.
//
// Each run records its kind, the archives it read, whether it passed, the
// report fingerprint, the headline counts, and the full JSON report so a
// past run can be shown again without the original archives.
//
// # Ordering
//
// Listings order by seq (insertion order), then id with COLLATE BINARY,
// so results never depend on wall-clock timestamps.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: run_counts rows are removed with their run
package store
