package derive

import "github.com/orbitlab/planetforge/internal/params"

// Result is the immutable derived-metrics bundle produced once per
// Derive call. The parameters, stellar, and physical groups echo the
// input document unmodified.
type Result struct {
	Timestamp  string            `json:"timestamp"`
	Parameters params.Document   `json:"parameters"`
	Physics    PhysicsMetrics    `json:"physics"`
	Stellar    params.Stellar    `json:"stellar"`
	Hydrology  HydrologyMetrics  `json:"hydrology"`
	Geology    GeologyMetrics    `json:"geology"`
	Climate    ClimateMetrics    `json:"climate"`
	Atmosphere AtmosphereMetrics `json:"atmosphere"`
	Physical   params.Physical   `json:"physical"`
}

// PhysicsMetrics extends the input physics group with effective surface
// gravity in m/s^2.
type PhysicsMetrics struct {
	GravityG            float64 `json:"gravity_g"`
	EffectiveGravityMS2 float64 `json:"effective_gravity_m_s2"`
}

// HydrologyMetrics publishes the clamped ocean coverage.
type HydrologyMetrics struct {
	OceanFraction        float64 `json:"ocean_fraction"`
	SurfaceWaterFraction float64 `json:"surface_water_fraction"`
}

// GeologyMetrics holds the derived tectonic and volcanic metrics.
type GeologyMetrics struct {
	TectonicActivityLevel   float64 `json:"tectonic_activity_level"`
	CrustStressIndex        float64 `json:"crust_stress_index"`
	PlateVelocityCmYr       float64 `json:"plate_velocity_cm_yr"`
	MountainFormationFactor float64 `json:"mountain_formation_factor"`
	VolcanicFluxFactor      float64 `json:"volcanic_flux_factor"`
	GeothermalFluxWM2       float64 `json:"geothermal_flux_w_m2"`
}

// ClimateMetrics holds the derived thermal and weather metrics.
type ClimateMetrics struct {
	MeanSurfaceTempK         float64 `json:"mean_surface_temp_k"`
	MeanSurfaceTempC         float64 `json:"mean_surface_temp_c"`
	SolarFluxRel             float64 `json:"solar_flux_rel"`
	CloudCoverFraction       float64 `json:"cloud_cover_fraction"`
	SurfacePressureAtm       float64 `json:"surface_pressure_atm"`
	TempGradientEquatorPoleK float64 `json:"temp_gradient_equator_pole_k"`
	PrecipitationFactor      float64 `json:"precipitation_factor"`
	StormFrequencyIndex      float64 `json:"storm_frequency_index"`
}

// AtmosphereMetrics holds the derived atmospheric dynamics metrics.
type AtmosphereMetrics struct {
	SurfacePressureAtm float64 `json:"surface_pressure_atm"`
	CoriolisStrength   float64 `json:"coriolis_strength"`
	AvgWindSpeedMS     float64 `json:"avg_wind_speed_m_s"`
	ScaleHeightKm      float64 `json:"scale_height_km"`
}
