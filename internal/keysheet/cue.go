package keysheet

import (
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// schemaCUE constrains the shape of a key sheet. Catalog membership is left
// to the engine so that its error codes stay the single source of truth.
const schemaCUE = `
#Name: =~"^[A-Za-z][A-Za-z-]*$"

#KeySheet: {
	rotors:         string | [#Name, #Name, #Name] | [#Name, #Name, #Name, #Name]
	reflector:      #Name
	ring_settings?: string | [...(int & >=1 & <=26 | =~"^[A-Za-z]$")]
	plugboard?:     string | [...=~"^([A-Za-z]{2}|[0-9]{1,2}/[0-9]{1,2})$"]
	display?:       =~"^[A-Za-z]{3,4}$"
}

keysheet: #KeySheet
`

// DecodeCUE evaluates a CUE key sheet. filename is used in positions only.
func DecodeCUE(data []byte, filename string) (enigma.KeySheet, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("keysheet-schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is a constant; failing here is a programming error.
		panic("keysheet: invalid embedded schema: " + err.Error())
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeParseFailed, err)
	}

	v := schema.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeSchemaViolation, err)
	}

	sheet := v.LookupPath(cue.ParsePath("keysheet"))
	rotors, err := cueList(sheet.LookupPath(cue.ParsePath("rotors")))
	if err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeSchemaViolation, err)
	}
	rings, err := cueList(sheet.LookupPath(cue.ParsePath("ring_settings")))
	if err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeSchemaViolation, err)
	}
	plugs, err := cueList(sheet.LookupPath(cue.ParsePath("plugboard")))
	if err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeSchemaViolation, err)
	}
	reflector, err := sheet.LookupPath(cue.ParsePath("reflector")).String()
	if err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeSchemaViolation, err)
	}
	display, err := cueOptionalString(sheet.LookupPath(cue.ParsePath("display")))
	if err != nil {
		return enigma.KeySheet{}, cueLoadError(ErrCodeSchemaViolation, err)
	}

	doc := Document{
		Rotors:       rotors,
		Reflector:    reflector,
		RingSettings: rings,
		Plugboard:    plugs,
		Display:      display,
	}
	ks, err := doc.KeySheet()
	if err != nil {
		return enigma.KeySheet{}, &LoadError{Code: ErrCodeSchemaViolation, Message: err.Error(), Err: err}
	}
	return ks, nil
}

// cueList reads a string or a list of strings and integers. A missing field
// yields an empty list.
func cueList(v cue.Value) (List, error) {
	if !v.Exists() {
		return nil, nil
	}
	if s, err := v.String(); err == nil {
		return List{s}, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, err
	}
	var out List
	for iter.Next() {
		item := iter.Value()
		switch item.Kind() {
		case cue.IntKind:
			n, err := item.Int64()
			if err != nil {
				return nil, err
			}
			out = append(out, strconv.FormatInt(n, 10))
		default:
			s, err := item.String()
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func cueOptionalString(v cue.Value) (string, error) {
	if !v.Exists() {
		return "", nil
	}
	return v.String()
}

// cueLoadError keeps the first CUE error and its position.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error(), Err: err}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	le.Message = errs[0].Error()
	if positions := errors.Positions(errs[0]); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
