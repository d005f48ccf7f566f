// Package harness runs conformance scenarios against the Enigma machine.
//
// A scenario is a YAML file naming a key sheet and a list of steps: typed
// text with the expected lamps, display overrides, and display checks.
// Optional assertions check machine-level properties over the whole run
// (no letter enciphers to itself, the ciphertext deciphers back, the journal
// replays cleanly).
//
// Each scenario runs in a fresh session journaled to an in-memory store, with
// a fixed session ID so traces are reproducible:
//
//	name: double_step
//	description: Middle rotor steps twice in a row
//	keysheet:
//	  rotors: I II III
//	  reflector: B
//	  display: ADU
//	steps:
//	  - type: AAA
//	  - expect_display: BFX
//
// Traces compare against golden files in testdata/golden via goldie.
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
