package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadwatch/types"
)

func TestStaticSourceLookup(t *testing.T) {
	source := NewStaticSource(
		map[string]types.StaticProfile{
			"gwarinpa,fct": {BaselineRisk: types.RiskModerate},
			"kawo":         {BaselineRisk: types.RiskHigh},
		},
		map[string]types.StaticProfile{
			"abuja-kaduna expressway": {BaselineRisk: types.RiskCritical},
		},
	)

	// Exact name+state key wins.
	p, err := source.AreaProfile("Gwarinpa", "FCT")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.RiskModerate, p.BaselineRisk)

	// Bare-name fallback.
	p, err = source.AreaProfile("Kawo", "Kaduna")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.RiskHigh, p.BaselineRisk)

	// Absent is (nil, nil), not an error.
	p, err = source.AreaProfile("Nowhere", "FCT")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = source.RoadProfile("Abuja-Kaduna Expressway")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.RiskCritical, p.BaselineRisk)
}

func TestFileSourceLoadsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"areas": {"gwarinpa": {"baseline_risk": "low", "notes": "residential"}},
		"roads": {"kaduna-zaria road": {"baseline_risk": "high"}}
	}`), 0o600))

	source, err := NewFileSource(path)
	require.NoError(t, err)

	p, err := source.AreaProfile("GWARINPA", "FCT")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.RiskLow, p.BaselineRisk)
	assert.Equal(t, "residential", p.Notes)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = NewFileSource(path)
	assert.Error(t, err)
}
