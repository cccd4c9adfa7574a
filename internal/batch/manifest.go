package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one roll in the output manifest.
type ManifestEntry struct {
	Seed   uint64 `json:"seed"`
	Result string `json:"result"`
	Label  int    `json:"label,omitempty"`
	Frames int    `json:"frames"`
	Image  string `json:"image,omitempty"`
	Trace  string `json:"trace,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WriteManifest writes the results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		value := "unknown"
		if r.Known {
			value = fmt.Sprint(r.Label)
		}
		entries[i] = ManifestEntry{
			Seed:   r.Seed,
			Result: value,
			Label:  r.Label,
			Frames: r.Frames,
			Image:  r.Image,
			Trace:  r.Trace,
			Error:  r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
