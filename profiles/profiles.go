// Package profiles reads the precomputed static security profiles supplied
// by an external collaborator. This core never writes to that store; a
// missing profile simply means the dynamic risk adjustment is skipped.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"roadwatch/types"
)

// Source supplies baseline profiles per area or road. Absent profiles return
// (nil, nil).
type Source interface {
	AreaProfile(name, state string) (*types.StaticProfile, error)
	RoadProfile(road string) (*types.StaticProfile, error)
}

// fileData is the on-disk shape: two maps keyed by lowercased identity.
type fileData struct {
	Areas map[string]types.StaticProfile `json:"areas"`
	Roads map[string]types.StaticProfile `json:"roads"`
}

// FileSource loads profiles from a JSON file once and serves them from
// memory.
type FileSource struct {
	mu   sync.RWMutex
	data fileData
}

// NewFileSource reads the profile file. The file is validated upstream;
// decode failures here are configuration errors.
func NewFileSource(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return &FileSource{data: data}, nil
}

// NewStaticSource builds a source from in-memory maps, used in tests and
// when no profile file is configured.
func NewStaticSource(areas, roads map[string]types.StaticProfile) *FileSource {
	return &FileSource{data: fileData{Areas: areas, Roads: roads}}
}

func (f *FileSource) AreaProfile(name, state string) (*types.StaticProfile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, key := range []string{normalize(name + "," + state), normalize(name)} {
		if p, ok := f.data.Areas[key]; ok {
			profile := p
			return &profile, nil
		}
	}
	return nil, nil
}

func (f *FileSource) RoadProfile(road string) (*types.StaticProfile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if p, ok := f.data.Roads[normalize(road)]; ok {
		profile := p
		return &profile, nil
	}
	return nil, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
