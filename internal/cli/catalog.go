package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// CatalogRotor is one rotor in the catalog listing.
type CatalogRotor struct {
	Name    string `json:"name"`
	Wiring  string `json:"wiring"`
	Notches string `json:"notches,omitempty"`
	Greek   bool   `json:"greek,omitempty"`
}

// CatalogReflector is one reflector in the catalog listing.
type CatalogReflector struct {
	Name   string `json:"name"`
	Wiring string `json:"wiring"`
	Thin   bool   `json:"thin,omitempty"`
}

// CatalogResult is the full catalog.
type CatalogResult struct {
	Rotors     []CatalogRotor     `json:"rotors"`
	Reflectors []CatalogReflector `json:"reflectors"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the rotors and reflectors a key sheet can name",
		Long: `List the historical rotors and reflectors with their wirings.

Notches are the window letters at which a rotor carries its left
neighbour. Greek wheels (Beta, Gamma) never step and fit only the leftmost
slot of a four-rotor machine, which also needs a thin reflector.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(rootOpts, cmd)
		},
	}
}

func runCatalog(opts *RootOptions, cmd *cobra.Command) error {
	result, err := buildCatalog()
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return f.Success(result)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, heading("ROTOR")+"\t"+heading("WIRING")+"\t"+heading("NOTCHES"))
	for _, r := range result.Rotors {
		notches := r.Notches
		if r.Greek {
			notches = "(greek)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Wiring, notches)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, heading("REFLECTOR")+"\t"+heading("WIRING")+"\t")
	for _, r := range result.Reflectors {
		thin := ""
		if r.Thin {
			thin = "(thin)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Wiring, thin)
	}
	return tw.Flush()
}

func buildCatalog() (CatalogResult, error) {
	var result CatalogResult
	for _, name := range enigma.RotorNames() {
		spec, err := enigma.LookupRotor(name)
		if err != nil {
			return CatalogResult{}, err
		}
		result.Rotors = append(result.Rotors, CatalogRotor{
			Name:    spec.Name,
			Wiring:  spec.Wiring,
			Notches: spec.Notches,
			Greek:   enigma.IsGreekWheel(spec.Name),
		})
	}
	for _, name := range enigma.ReflectorNames() {
		spec, err := enigma.LookupReflector(name)
		if err != nil {
			return CatalogResult{}, err
		}
		result.Reflectors = append(result.Reflectors, CatalogReflector{
			Name:   spec.Name,
			Wiring: spec.Wiring,
			Thin:   enigma.IsThinReflector(spec.Name),
		})
	}
	return result, nil
}
