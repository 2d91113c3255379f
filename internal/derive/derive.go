// Package derive implements the planetary derivation engine: a
// single-pass, stateless transform from a parameter document to the
// derived-metrics bundle.
package derive

import (
	"math"
	"time"

	"github.com/rotisserie/eris"

	"github.com/orbitlab/planetforge/internal/params"
)

// Reference surface gravity in m/s^2 for gravity_g = 1.0.
const referenceGravity = 9.81

// ErrZeroOrbitalDistance is returned when orbital_distance_au is zero,
// which would divide by zero in the solar flux formula.
var ErrZeroOrbitalDistance = eris.New("derive: orbital distance must be non-zero")

// ErrZeroRotationPeriod is returned when rotation_period_hours is zero,
// which would divide by zero in the coriolis formula.
var ErrZeroRotationPeriod = eris.New("derive: rotation period must be non-zero")

// Engine computes derived planetary metrics. It holds no mutable state;
// concurrent Derive calls need no coordination. The clock is injectable
// so tests can pin the result timestamp.
type Engine struct {
	now func() time.Time
}

// New returns an engine using the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock returns an engine with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Derive computes the full result document for the given parameters.
// It either succeeds with a complete bundle or fails with no document;
// degenerate inputs surface as errors rather than NaN/Inf in the output.
func (e *Engine) Derive(doc params.Document) (*Result, error) {
	gravity := doc.Physics.GravityG
	oceanFraction := clamp(doc.Hydrology.OceanFraction, 0.0, 1.0)
	tilt := doc.Stellar.AxialTiltDeg
	rotationPeriod := doc.Stellar.RotationPeriodHours
	distanceAU := doc.Stellar.OrbitalDistanceAU
	tectonicLevel := doc.Geology.TectonicActivityLevel
	pressureAtm := doc.Atmosphere.SurfacePressureAtm
	cloudCover := doc.Atmosphere.CloudCoverFraction

	if distanceAU == 0 {
		return nil, ErrZeroOrbitalDistance
	}
	if rotationPeriod == 0 {
		return nil, ErrZeroRotationPeriod
	}

	// Gravity drives both crustal stress and plate dynamics.
	crustStressIndex := round2(tectonicLevel / 10 * gravity * 100)
	plateVelocity := round2(tectonicLevel*0.45 + gravity*0.1)
	mountainFormation := round2(1.0 + tectonicLevel*0.2 - (gravity-1.0)*0.15)
	volcanicFlux := round2(1.0 + tectonicLevel/10.0)
	geothermalFlux := round3(0.06 + tectonicLevel*0.01)

	solarFlux := round3(1 / (distanceAU * distanceAU))

	// Blackbody baseline scaled by flux, then heuristic corrections:
	// oceans moderate (heat capacity), pressure adds greenhouse, clouds
	// raise albedo, tilt shifts the mean slightly, gravity affects
	// atmospheric retention, volcanism adds heat. The volcanic term uses
	// the published rounded value.
	baseTemp := 288 * solarFlux
	meanSurfaceTempK := round2(baseTemp -
		oceanFraction*8 +
		(pressureAtm-1.0)*15 -
		cloudCover*12 +
		tilt*0.05 -
		(gravity-1.0)*3 +
		volcanicFlux*1.5)
	meanSurfaceTempC := round2(meanSurfaceTempK - 273.15)

	coriolisStrength := round3(24.0 / rotationPeriod)
	avgWindSpeed := round2(10 * coriolisStrength * math.Sqrt(pressureAtm) * (1 + tectonicLevel*0.05))

	tempGradient := round2(40 * tilt / 23.5 * (1 - oceanFraction*0.3))
	precipFactor := round2(oceanFraction * cloudCover * 2.5)
	// Storms favor fast-rotating, high-pressure, cloudy planets; uses the
	// published rounded coriolis value.
	stormFrequency := round2(coriolisStrength * pressureAtm * (1 + cloudCover))

	return &Result{
		Timestamp:  e.now().UTC().Format(time.RFC3339Nano),
		Parameters: doc,
		Physics: PhysicsMetrics{
			GravityG:            gravity,
			EffectiveGravityMS2: round2(gravity * referenceGravity),
		},
		Stellar: doc.Stellar,
		Hydrology: HydrologyMetrics{
			OceanFraction:        oceanFraction,
			SurfaceWaterFraction: round3(oceanFraction),
		},
		Geology: GeologyMetrics{
			TectonicActivityLevel:   tectonicLevel,
			CrustStressIndex:        crustStressIndex,
			PlateVelocityCmYr:       plateVelocity,
			MountainFormationFactor: mountainFormation,
			VolcanicFluxFactor:      volcanicFlux,
			GeothermalFluxWM2:       geothermalFlux,
		},
		Climate: ClimateMetrics{
			MeanSurfaceTempK:         meanSurfaceTempK,
			MeanSurfaceTempC:         meanSurfaceTempC,
			SolarFluxRel:             solarFlux,
			CloudCoverFraction:       cloudCover,
			SurfacePressureAtm:       pressureAtm,
			TempGradientEquatorPoleK: tempGradient,
			PrecipitationFactor:      precipFactor,
			StormFrequencyIndex:      stormFrequency,
		},
		Atmosphere: AtmosphereMetrics{
			SurfacePressureAtm: pressureAtm,
			CoriolisStrength:   coriolisStrength,
			AvgWindSpeedMS:     avgWindSpeed,
			ScaleHeightKm:      round2(8.5 / gravity),
		},
		Physical: doc.Physical,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
