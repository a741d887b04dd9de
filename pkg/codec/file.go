package codec

import (
	"fmt"
	"os"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// ReadFile reads and parses a detached timestamp file from path (spec.md
// treats the on-disk file as the primary persisted artifact).
func ReadFile(path string) (*model.Timestamp, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codec: reading %s: %w", path, err)
	}
	return Read(buf)
}

// WriteFile serializes ts and writes it to path with mode 0644.
func WriteFile(path string, ts *model.Timestamp) error {
	buf, err := Write(ts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("codec: writing %s: %w", path, err)
	}
	return nil
}
