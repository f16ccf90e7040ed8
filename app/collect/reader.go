package collect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Batch is one parsed-source file: metadata plus the ordered entries the
// upstream parser produced for it.
type Batch[E any] struct {
	Meta    Meta `json:"meta"`
	Entries []E  `json:"entries"`
}

// DiscoverBatches lists every parsed batch file below dir, one level of
// source subdirectory deep. Paths are sorted so repeated runs fold batches
// in the same order.
func DiscoverBatches(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*", "parsed", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadBatch loads a single batch file. Any structural failure is fatal for
// the whole run: a batch that cannot be decoded cannot be assigned a group.
func ReadBatch[E any](path string) (Batch[E], error) {
	var batch Batch[E]
	data, err := os.ReadFile(path)
	if err != nil {
		return batch, fmt.Errorf("read batch %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &batch); err != nil {
		return batch, fmt.Errorf("decode batch %s: %w", path, err)
	}
	return batch, nil
}
