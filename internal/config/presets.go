package config

// Presets are ready-made scenes; the dam break mirrors the classic
// benchmark of a fluid column collapsing inside an open box.
var presets = map[string]*Config{
	"dam_break": {
		Scene: SceneConfig{
			FluidRects: []FluidRect{
				{X: 0.1, Y: 0.1, W: 0.5, H: 0.8, Jitter: 0.05},
			},
			BoundaryLines: []BoundaryLine{
				{X1: 0.0, Y1: 0.0, X2: 1.5, Y2: 0.0},
				{X1: 0.0, Y1: 0.0, X2: 0.0, Y2: 1.5},
				{X1: 1.5, Y1: 0.0, X2: 1.5, Y2: 1.5},
			},
			View: ViewRect{X: -0.1, Y: -0.1, W: 1.7, H: 1.6},
		},
	},
	"double_dam": {
		Scene: SceneConfig{
			FluidRects: []FluidRect{
				{X: 0.05, Y: 0.1, W: 0.35, H: 0.6, Jitter: 0.05},
				{X: 1.1, Y: 0.1, W: 0.35, H: 0.6, Jitter: 0.05},
			},
			BoundaryLines: []BoundaryLine{
				{X1: 0.0, Y1: 0.0, X2: 1.5, Y2: 0.0},
				{X1: 0.0, Y1: 0.0, X2: 0.0, Y2: 1.5},
				{X1: 1.5, Y1: 0.0, X2: 1.5, Y2: 1.5},
			},
			View: ViewRect{X: -0.1, Y: -0.1, W: 1.7, H: 1.6},
		},
	},
	"droplet": {
		Scene: SceneConfig{
			FluidRects: []FluidRect{
				{X: 0.6, Y: 0.9, W: 0.3, H: 0.3, Jitter: 0.05},
				{X: 0.0, Y: 0.0, W: 1.5, H: 0.15, Jitter: 0.05},
			},
			BoundaryLines: []BoundaryLine{
				{X1: 0.0, Y1: 0.0, X2: 1.5, Y2: 0.0},
				{X1: 0.0, Y1: 0.0, X2: 0.0, Y2: 1.5},
				{X1: 1.5, Y1: 0.0, X2: 1.5, Y2: 1.5},
			},
			View: ViewRect{X: -0.1, Y: -0.1, W: 1.7, H: 1.6},
		},
	},
}

// GetPreset returns a copy of the named scene preset with default fluid and
// run parameters filled in, or nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := &Config{
		Fluid: FluidConfig{
			SmoothingFactor: DefaultSmoothingFactor,
			ParticleDensity: DefaultParticleDensity,
			FluidDensity:    DefaultFluidDensity,
			SpeedOfSound:    DefaultSpeedOfSound,
			Viscosity:       DefaultViscosity,
			GravityY:        -9.81,
		},
		Scene: p.Scene,
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			WarmupSteps: DefaultWarmupSteps,
			WarmupDt:    DefaultWarmupDt,
			Seed:        1,
		},
	}
	return cfg
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
