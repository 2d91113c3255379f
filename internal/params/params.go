// Package params defines the planet parameter document, its documented
// defaults, and the file-backed configuration store.
package params

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// ErrNotFound indicates the base configuration file does not exist.
var ErrNotFound = eris.New("params: config not found")

// Physics holds gravitational parameters.
type Physics struct {
	GravityG float64 `json:"gravity_g" mapstructure:"gravity_g"`
}

// Hydrology holds surface water parameters.
type Hydrology struct {
	OceanFraction float64 `json:"ocean_fraction" mapstructure:"ocean_fraction"`
}

// Stellar holds orbital and rotational parameters.
type Stellar struct {
	AxialTiltDeg        float64 `json:"axial_tilt_deg" mapstructure:"axial_tilt_deg"`
	RotationPeriodHours float64 `json:"rotation_period_hours" mapstructure:"rotation_period_hours"`
	OrbitalDistanceAU   float64 `json:"orbital_distance_au" mapstructure:"orbital_distance_au"`
}

// Geology holds tectonic parameters.
type Geology struct {
	TectonicActivityLevel float64 `json:"tectonic_activity_level" mapstructure:"tectonic_activity_level"`
}

// Atmosphere holds atmospheric parameters.
type Atmosphere struct {
	SurfacePressureAtm float64 `json:"surface_pressure_atm" mapstructure:"surface_pressure_atm"`
	CloudCoverFraction float64 `json:"cloud_cover_fraction" mapstructure:"cloud_cover_fraction"`
}

// Physical holds bulk physical parameters.
type Physical struct {
	RadiusScale float64 `json:"radius_scale" mapstructure:"radius_scale"`
}

// Document is the full parameter document consumed by the derivation
// engine, grouped by domain.
type Document struct {
	Physics    Physics    `json:"physics" mapstructure:"physics"`
	Hydrology  Hydrology  `json:"hydrology" mapstructure:"hydrology"`
	Stellar    Stellar    `json:"stellar" mapstructure:"stellar"`
	Geology    Geology    `json:"geology" mapstructure:"geology"`
	Atmosphere Atmosphere `json:"atmosphere" mapstructure:"atmosphere"`
	Physical   Physical   `json:"physical" mapstructure:"physical"`
}

// Base is the persisted representation: the parameter groups nested
// under a top-level "parameters" key.
type Base struct {
	Parameters Document `json:"parameters" mapstructure:"parameters"`
}

// defaults maps each dotted parameter path to its documented default.
var defaults = map[string]float64{
	"parameters.physics.gravity_g":               1.0,
	"parameters.hydrology.ocean_fraction":        0.68,
	"parameters.stellar.axial_tilt_deg":          23.5,
	"parameters.stellar.rotation_period_hours":   24,
	"parameters.stellar.orbital_distance_au":     1.0,
	"parameters.geology.tectonic_activity_level": 3.0,
	"parameters.atmosphere.surface_pressure_atm": 1.0,
	"parameters.atmosphere.cloud_cover_fraction": 0.4,
	"parameters.physical.radius_scale":           1.0,
}

// Defaults returns a base document populated with the documented defaults.
func Defaults() Base {
	return Base{
		Parameters: Document{
			Physics:    Physics{GravityG: 1.0},
			Hydrology:  Hydrology{OceanFraction: 0.68},
			Stellar:    Stellar{AxialTiltDeg: 23.5, RotationPeriodHours: 24, OrbitalDistanceAU: 1.0},
			Geology:    Geology{TectonicActivityLevel: 3.0},
			Atmosphere: Atmosphere{SurfacePressureAtm: 1.0, CloudCoverFraction: 0.4},
			Physical:   Physical{RadiusScale: 1.0},
		},
	}
}

// Load reads a base parameter document from a JSON file. Fields absent
// from the file fall back to the documented defaults; no range or type
// validation is performed beyond JSON well-formedness.
func Load(path string) (Base, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Base{}, eris.Wrapf(ErrNotFound, "%s", path)
		}
		return Base{}, eris.Wrapf(err, "params: stat %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		return Base{}, eris.Wrapf(err, "params: read %s", path)
	}

	var base Base
	if err := v.Unmarshal(&base); err != nil {
		return Base{}, eris.Wrapf(err, "params: unmarshal %s", path)
	}
	return base, nil
}

// Save writes the base document verbatim as indented JSON. Used only for
// optional per-session auditing; the engine never depends on it.
func Save(base Base, path string) error {
	data, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return eris.Wrap(err, "params: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "params: write %s", path)
	}
	return nil
}
