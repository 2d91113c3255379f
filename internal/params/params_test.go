package params

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	base := Defaults()

	assert.InDelta(t, 1.0, base.Parameters.Physics.GravityG, 1e-9)
	assert.InDelta(t, 0.68, base.Parameters.Hydrology.OceanFraction, 1e-9)
	assert.InDelta(t, 23.5, base.Parameters.Stellar.AxialTiltDeg, 1e-9)
	assert.InDelta(t, 24.0, base.Parameters.Stellar.RotationPeriodHours, 1e-9)
	assert.InDelta(t, 1.0, base.Parameters.Stellar.OrbitalDistanceAU, 1e-9)
	assert.InDelta(t, 3.0, base.Parameters.Geology.TectonicActivityLevel, 1e-9)
	assert.InDelta(t, 1.0, base.Parameters.Atmosphere.SurfacePressureAtm, 1e-9)
	assert.InDelta(t, 0.4, base.Parameters.Atmosphere.CloudCoverFraction, 1e-9)
	assert.InDelta(t, 1.0, base.Parameters.Physical.RadiusScale, 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_AbsentFieldsFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"parameters": {
			"physics": {"gravity_g": 0.38},
			"stellar": {"orbital_distance_au": 1.52}
		}
	}`), 0o644))

	base, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.38, base.Parameters.Physics.GravityG, 1e-9)
	assert.InDelta(t, 1.52, base.Parameters.Stellar.OrbitalDistanceAU, 1e-9)
	// Absent groups and fields keep the documented defaults.
	assert.InDelta(t, 23.5, base.Parameters.Stellar.AxialTiltDeg, 1e-9)
	assert.InDelta(t, 0.68, base.Parameters.Hydrology.OceanFraction, 1e-9)
	assert.InDelta(t, 3.0, base.Parameters.Geology.TectonicActivityLevel, 1e-9)
}

func TestLoad_OutOfRangeValuesPassThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wild.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"parameters": {
			"physics": {"gravity_g": -4},
			"hydrology": {"ocean_fraction": 1.7}
		}
	}`), 0o644))

	base, err := Load(path)
	require.NoError(t, err)

	// The store reads permissively; clamping happens at derivation time.
	assert.InDelta(t, -4.0, base.Parameters.Physics.GravityG, 1e-9)
	assert.InDelta(t, 1.7, base.Parameters.Hydrology.OceanFraction, 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	base := Defaults()
	base.Parameters.Physics.GravityG = 2.4
	base.Parameters.Stellar.RotationPeriodHours = 9.9

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(base, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, base, loaded)
}

func TestSave_NestedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, Save(Defaults(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]map[string]map[string]float64
	require.NoError(t, json.Unmarshal(data, &raw))

	groups := raw["parameters"]
	require.NotNil(t, groups)
	assert.InDelta(t, 1.0, groups["physics"]["gravity_g"], 1e-9)
	assert.InDelta(t, 24.0, groups["stellar"]["rotation_period_hours"], 1e-9)
	assert.InDelta(t, 0.4, groups["atmosphere"]["cloud_cover_fraction"], 1e-9)
}

func ptr(v float64) *float64 { return &v }

func TestApply_SkipsUnsetFields(t *testing.T) {
	doc := Defaults().Parameters

	merged := doc.Apply(Overrides{
		GravityG:     ptr(1.9),
		AxialTiltDeg: ptr(5.0),
	})

	assert.InDelta(t, 1.9, merged.Physics.GravityG, 1e-9)
	assert.InDelta(t, 5.0, merged.Stellar.AxialTiltDeg, 1e-9)
	// Unset override fields keep the base values.
	assert.InDelta(t, 0.68, merged.Hydrology.OceanFraction, 1e-9)
	assert.InDelta(t, 24.0, merged.Stellar.RotationPeriodHours, 1e-9)

	// Apply operates on a copy.
	assert.InDelta(t, 1.0, doc.Physics.GravityG, 1e-9)
}

func TestApply_AllFields(t *testing.T) {
	merged := Defaults().Parameters.Apply(Overrides{
		GravityG:              ptr(0.38),
		OceanFraction:         ptr(0.0),
		AxialTiltDeg:          ptr(25.2),
		RotationPeriodHours:   ptr(24.6),
		OrbitalDistanceAU:     ptr(1.52),
		TectonicActivityLevel: ptr(0.5),
		SurfacePressureAtm:    ptr(0.006),
		CloudCoverFraction:    ptr(0.1),
		RadiusScale:           ptr(0.53),
	})

	assert.InDelta(t, 0.38, merged.Physics.GravityG, 1e-9)
	assert.InDelta(t, 0.0, merged.Hydrology.OceanFraction, 1e-9)
	assert.InDelta(t, 25.2, merged.Stellar.AxialTiltDeg, 1e-9)
	assert.InDelta(t, 24.6, merged.Stellar.RotationPeriodHours, 1e-9)
	assert.InDelta(t, 1.52, merged.Stellar.OrbitalDistanceAU, 1e-9)
	assert.InDelta(t, 0.5, merged.Geology.TectonicActivityLevel, 1e-9)
	assert.InDelta(t, 0.006, merged.Atmosphere.SurfacePressureAtm, 1e-9)
	assert.InDelta(t, 0.1, merged.Atmosphere.CloudCoverFraction, 1e-9)
	assert.InDelta(t, 0.53, merged.Physical.RadiusScale, 1e-9)
}

func TestSet_KnownPaths(t *testing.T) {
	doc := Defaults().Parameters

	require.NoError(t, doc.Set("physics.gravity_g", 2.5))
	require.NoError(t, doc.Set("geology.tectonic_activity_level", 7))

	assert.InDelta(t, 2.5, doc.Physics.GravityG, 1e-9)
	assert.InDelta(t, 7.0, doc.Geology.TectonicActivityLevel, 1e-9)
}

func TestSet_UnknownPath(t *testing.T) {
	doc := Defaults().Parameters

	err := doc.Set("stellar.luminosity", 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter path")
}

func TestPaths_CoversEveryOverrideField(t *testing.T) {
	paths := Paths()
	assert.Len(t, paths, 9)
	assert.Contains(t, paths, "physics.gravity_g")
	assert.Contains(t, paths, "hydrology.ocean_fraction")
	assert.Contains(t, paths, "physical.radius_scale")
}

func TestOverrides_NullJSONFieldsStayUnset(t *testing.T) {
	var o Overrides
	require.NoError(t, json.Unmarshal([]byte(`{"gravity_g": 1.2, "ocean_fraction": null}`), &o))

	require.NotNil(t, o.GravityG)
	assert.InDelta(t, 1.2, *o.GravityG, 1e-9)
	assert.Nil(t, o.OceanFraction)
}

func TestOverrides_NonNumericValueRejected(t *testing.T) {
	var o Overrides
	err := json.Unmarshal([]byte(`{"gravity_g": "heavy"}`), &o)
	require.Error(t, err)

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}
