// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package latency

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sugawarayuuta/sonnet"
)

// Report aggregates one exchange variant's benchmark passes.
type Report struct {
	Variant string  `json:"variant"`
	Reads   Summary `json:"reads"`
	Misses  Summary `json:"misses"`
	Writes  Summary `json:"writes"`
}

// WriteReports serializes the reports as indented JSON to name inside
// dir, replacing any previous file.
func WriteReports(dir, name string, reports []Report) error {
	data, err := sonnet.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("latency: marshal reports: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("latency: write %s: %w", name, err)
	}
	return nil
}
