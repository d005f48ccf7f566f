// Package session gives one operator exclusive use of one Enigma machine.
//
// A Session wraps an *enigma.Machine built from a key sheet, stamps every key
// press with a monotonically increasing sequence number and forwards it to an
// optional Recorder (the SQLite journal in package store).
//
// The machine itself is not safe for concurrent use. Session serializes all
// access with a mutex, so a Session may be shared between goroutines, but
// independent operators should each own their own Session.
package session
