// Package keysheet loads machine settings from files.
//
// Two formats are supported, chosen by file extension:
//
// YAML (.yaml, .yml), decoded strictly so that typos fail loudly:
//
//	rotors: II IV V          # or [II, IV, V]
//	reflector: B
//	ring_settings: [1, 20, 11] # 1-based numbers or letters, list or string
//	plugboard: AV BS CG DL FU HZ IN KM OW RX
//	display: AAA
//
// CUE (.cue), with the same fields under a top-level keysheet struct. The
// file is unified with an embedded #KeySheet schema before any field is
// read, so shape errors carry CUE positions:
//
//	keysheet: {
//		rotors:        ["II", "IV", "V"]
//		reflector:     "B"
//		ring_settings: [1, 20, 11]
//		display:       "AAA"
//	}
//
// The package checks syntax and shape only. Whether the rotors exist or fit
// together is decided by enigma.FromKeySheet.
package keysheet
