package timeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// editsFile is the on-disk shape of an edit list.
type editsFile struct {
	Zooms  []ZoomRegion  `json:"zooms,omitempty"`
	Cuts   []CutRegion   `json:"cuts,omitempty"`
	Speeds []SpeedRegion `json:"speeds,omitempty"`
}

// LoadEdits reads a saved edit list. A missing path returns an empty
// region set so an unedited recording exports as-is.
func LoadEdits(path string) (*Regions, error) {
	regions := NewRegions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return regions, nil
		}
		return nil, fmt.Errorf("failed to read edits: %w", err)
	}

	var file editsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode edits: %w", err)
	}
	for _, z := range file.Zooms {
		if z.ID == "" {
			z.ID = NewRegionID()
		}
		regions.Zooms[z.ID] = z
	}
	for _, c := range file.Cuts {
		if c.ID == "" {
			c.ID = NewRegionID()
		}
		regions.Cuts[c.ID] = c
	}
	for _, s := range file.Speeds {
		if s.ID == "" {
			s.ID = NewRegionID()
		}
		regions.Speeds[s.ID] = s
	}
	return regions, nil
}

// SaveEdits writes the edit list in the sorted, deterministic order.
func SaveEdits(path string, r *Regions) error {
	file := editsFile{
		Zooms:  r.SortedZooms(),
		Cuts:   r.SortedCuts(),
		Speeds: r.SortedSpeeds(),
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode edits: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write edits: %w", err)
	}
	return nil
}
