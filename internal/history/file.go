package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Encode renders a history file as HCL
func (f *File) Encode() []byte {
	out := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(f, out.Body())
	return out.Bytes()
}

// WriteFile writes the history to filename. Readers see either the previous
// file or the complete new one, never a partial write.
func WriteFile(filename string, f *File) error {
	return writeFileAtomic(filename, f.Encode(), 0o644)
}

// ReadFile loads a history file
func ReadFile(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return Decode(src, filename)
}

// Decode parses HCL history source
func Decode(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse history: %s", diags.Error())
	}

	var f File
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode history: %s", diags.Error())
	}
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported history version %d", f.Version)
	}
	return &f, nil
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it into place. The rename is atomic on POSIX filesystems.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	// Same directory keeps the rename on one filesystem
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			err = errors.Join(err, tmp.Close())
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
