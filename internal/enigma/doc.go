// Package enigma implements the rotor-cipher engine of the historical
// Enigma machine.
//
// The engine owns the machine's mechanical state and nothing else. A
// keystroke steps the rotors first, then sends the signal through the
// fixed path:
//
//	plugboard -> rotors (right to left) -> reflector -> rotors (left to right) -> plugboard
//
// ARCHITECTURE:
//
// Machine composes one Plugboard, one RotorStack and one Reflector. The
// ownership tree is flat (machine -> stack -> rotors) and every component is
// built from validated configuration, so KeyPress and Display have no error
// path. All validation happens in New, FromKeySheet and SetDisplay, which
// return *ConfigError.
//
// Stepping:
// The stack decides which rotors move from a snapshot of pre-step notch
// states and only then mutates positions. A single check-and-step loop gets
// the double-step anomaly wrong, so the two phases must stay separate.
//
// Concurrency:
// A Machine is not safe for concurrent use. Key presses are inherently
// sequential; callers that serve several operators give each one its own
// Machine. The session package builds one per session from the key sheet;
// Clone copies a machine in its current state.
//
// The historical catalog (rotors I-VIII, Beta, Gamma; reflectors A, B, C,
// B-Thin, C-Thin) is constant data built once at package init.
package enigma
