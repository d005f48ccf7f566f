package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/keysheet"
)

// MachineFlags holds the key sheet flags shared by encipher and run.
type MachineFlags struct {
	KeySheetFile string
	Rotors       string
	Reflector    string
	Rings        string
	Plugboard    string
	Display      string
}

func addMachineFlags(cmd *cobra.Command, f *MachineFlags) {
	cmd.Flags().StringVarP(&f.KeySheetFile, "keysheet", "k", "", "key sheet file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&f.Rotors, "rotors", "I II III", "rotors, leftmost first")
	cmd.Flags().StringVar(&f.Reflector, "reflector", "B", "reflector")
	cmd.Flags().StringVar(&f.Rings, "rings", "", "ring settings, 1-based numbers or letters (default all 1)")
	cmd.Flags().StringVar(&f.Plugboard, "plugboard", "", `plugboard pairs, e.g. "AV BS CG" or "1/22 2/19"`)
	cmd.Flags().StringVar(&f.Display, "display", "", "starting window letters (default all A)")
}

// KeySheet resolves the flags. With --keysheet, the machine flags other than
// --display must be left alone; --display overrides the sheet's starting
// window (the message key).
func (f *MachineFlags) KeySheet(cmd *cobra.Command) (enigma.KeySheet, error) {
	if f.KeySheetFile != "" {
		for _, name := range []string{"rotors", "reflector", "rings", "plugboard"} {
			if cmd.Flags().Changed(name) {
				return enigma.KeySheet{}, fmt.Errorf("--%s cannot be combined with --keysheet", name)
			}
		}
		ks, err := keysheet.Load(f.KeySheetFile)
		if err != nil {
			return enigma.KeySheet{}, err
		}
		if f.Display != "" {
			ks.Display = f.Display
		}
		return ks, nil
	}

	rings, err := enigma.ParseRingSettings(f.Rings)
	if err != nil {
		return enigma.KeySheet{}, err
	}
	return enigma.KeySheet{
		Rotors:       enigma.ParseRotors(f.Rotors),
		RingSettings: rings,
		Reflector:    f.Reflector,
		Plugboard:    f.Plugboard,
		Display:      f.Display,
	}, nil
}
