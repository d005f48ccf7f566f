package keysheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// Load reads a key sheet file, picking the decoder by extension.
func Load(path string) (enigma.KeySheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return enigma.KeySheet{}, &LoadError{
			Code:    ErrCodeReadFailed,
			Path:    path,
			Message: fmt.Sprintf("failed to read key sheet: %v", err),
			Err:     err,
		}
	}

	var ks enigma.KeySheet
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		ks, err = DecodeYAML(data)
	case ".cue":
		ks, err = DecodeCUE(data, path)
	default:
		return enigma.KeySheet{}, &LoadError{
			Code:    ErrCodeUnsupportedFormat,
			Path:    path,
			Message: fmt.Sprintf("unsupported key sheet extension %q (want .yaml, .yml or .cue)", ext),
		}
	}
	if err != nil {
		if le, ok := err.(*LoadError); ok && le.Path == "" {
			le.Path = path
		}
		return enigma.KeySheet{}, err
	}
	return ks, nil
}
