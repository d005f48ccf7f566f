// Package store journals Enigma sessions to SQLite.
//
// The journal is an append-only audit trace:
//   - Sessions: one row per session, holding the key sheet it was opened with
//   - Events: key presses and display overrides, stamped with the session's
//     logical seq
//
// A machine is never restored from the journal. ReplaySession rebuilds a
// fresh machine from the stored key sheet, re-applies the events and reports
// every place where the recorded lamps or windows differ from what the
// machine produces now.
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps. Event
// queries use ORDER BY seq ASC; session listings use ORDER BY id COLLATE
// BINARY, which is creation order for UUIDv7 IDs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Events must belong to a journaled session
package store
