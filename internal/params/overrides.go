package params

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Overrides carries the optional per-request parameter overrides. A nil
// field means "keep the base value"; out-of-domain numbers pass through
// untouched.
type Overrides struct {
	GravityG              *float64 `json:"gravity_g"`
	OceanFraction         *float64 `json:"ocean_fraction"`
	AxialTiltDeg          *float64 `json:"axial_tilt_deg"`
	RotationPeriodHours   *float64 `json:"rotation_period_hours"`
	OrbitalDistanceAU     *float64 `json:"orbital_distance_au"`
	TectonicActivityLevel *float64 `json:"tectonic_activity_level"`
	SurfacePressureAtm    *float64 `json:"surface_pressure_atm"`
	CloudCoverFraction    *float64 `json:"cloud_cover_fraction"`
	RadiusScale           *float64 `json:"radius_scale"`
}

// setters maps dotted parameter paths to field mutators. Explicit table
// instead of reflective map traversal so an unknown path is a hard error.
var setters = map[string]func(*Document, float64){
	"physics.gravity_g":               func(d *Document, v float64) { d.Physics.GravityG = v },
	"hydrology.ocean_fraction":        func(d *Document, v float64) { d.Hydrology.OceanFraction = v },
	"stellar.axial_tilt_deg":          func(d *Document, v float64) { d.Stellar.AxialTiltDeg = v },
	"stellar.rotation_period_hours":   func(d *Document, v float64) { d.Stellar.RotationPeriodHours = v },
	"stellar.orbital_distance_au":     func(d *Document, v float64) { d.Stellar.OrbitalDistanceAU = v },
	"geology.tectonic_activity_level": func(d *Document, v float64) { d.Geology.TectonicActivityLevel = v },
	"atmosphere.surface_pressure_atm": func(d *Document, v float64) { d.Atmosphere.SurfacePressureAtm = v },
	"atmosphere.cloud_cover_fraction": func(d *Document, v float64) { d.Atmosphere.CloudCoverFraction = v },
	"physical.radius_scale":           func(d *Document, v float64) { d.Physical.RadiusScale = v },
}

// Apply merges the overrides onto a copy of the document, skipping unset
// fields, and returns the merged document.
func (d Document) Apply(o Overrides) Document {
	assign := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	assign(&d.Physics.GravityG, o.GravityG)
	assign(&d.Hydrology.OceanFraction, o.OceanFraction)
	assign(&d.Stellar.AxialTiltDeg, o.AxialTiltDeg)
	assign(&d.Stellar.RotationPeriodHours, o.RotationPeriodHours)
	assign(&d.Stellar.OrbitalDistanceAU, o.OrbitalDistanceAU)
	assign(&d.Geology.TectonicActivityLevel, o.TectonicActivityLevel)
	assign(&d.Atmosphere.SurfacePressureAtm, o.SurfacePressureAtm)
	assign(&d.Atmosphere.CloudCoverFraction, o.CloudCoverFraction)
	assign(&d.Physical.RadiusScale, o.RadiusScale)
	return d
}

// Set assigns a single parameter by its dotted path (e.g.
// "stellar.axial_tilt_deg"). Unknown paths are rejected.
func (d *Document) Set(path string, value float64) error {
	set, ok := setters[path]
	if !ok {
		return eris.Errorf("params: unknown parameter path %q", path)
	}
	set(d, value)
	return nil
}

// Paths returns the known dotted parameter paths in sorted order.
func Paths() []string {
	paths := make([]string, 0, len(setters))
	for p := range setters {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
