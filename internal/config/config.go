package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sphlab/droplet/internal/fluid"
)

const (
	DefaultSmoothingFactor = 1.2
	DefaultParticleDensity = 2500.0
	DefaultFluidDensity    = 100.0
	DefaultSpeedOfSound    = 30.0
	DefaultViscosity       = 0.1
	DefaultDt              = 1.0 / 1200.0
	DefaultDuration        = 10.0
	DefaultWarmupSteps     = 80
	DefaultWarmupDt        = 1e-10
)

type Config struct {
	Fluid FluidConfig `yaml:"fluid"`
	Scene SceneConfig `yaml:"scene"`
	Run   RunConfig   `yaml:"run"`
}

type FluidConfig struct {
	SmoothingFactor float64 `yaml:"smoothing_factor"`
	ParticleDensity float64 `yaml:"particle_density"`
	FluidDensity    float64 `yaml:"fluid_density"`
	SpeedOfSound    float64 `yaml:"speed_of_sound"`
	Viscosity       float64 `yaml:"viscosity"`
	GravityX        float64 `yaml:"gravity_x"`
	GravityY        float64 `yaml:"gravity_y"`
}

type SceneConfig struct {
	FluidRects    []FluidRect    `yaml:"fluid_rects"`
	BoundaryLines []BoundaryLine `yaml:"boundary_lines"`
	// View is the world rectangle the render layers frame.
	View ViewRect `yaml:"view"`
}

type FluidRect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"w"`
	H      float64 `yaml:"h"`
	Jitter float64 `yaml:"jitter"`
}

type BoundaryLine struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

type ViewRect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	WarmupSteps int     `yaml:"warmup_steps"`
	WarmupDt    float64 `yaml:"warmup_dt"`
	Seed        int64   `yaml:"seed"`
	Workers     int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Fluid: FluidConfig{
			SmoothingFactor: DefaultSmoothingFactor,
			ParticleDensity: DefaultParticleDensity,
			FluidDensity:    DefaultFluidDensity,
			SpeedOfSound:    DefaultSpeedOfSound,
			Viscosity:       DefaultViscosity,
			GravityX:        0.0,
			GravityY:        -9.81,
		},
		Scene: GetPreset("dam_break").Scene,
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			WarmupSteps: DefaultWarmupSteps,
			WarmupDt:    DefaultWarmupDt,
			Seed:        1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects parameter combinations the solver cannot run with.
func (c *Config) Validate() error {
	if c.Fluid.ParticleDensity <= 0 {
		return fmt.Errorf("particle_density must be positive, got %g", c.Fluid.ParticleDensity)
	}
	if c.Fluid.FluidDensity <= 0 {
		return fmt.Errorf("fluid_density must be positive, got %g", c.Fluid.FluidDensity)
	}
	if c.Fluid.SmoothingFactor <= 0 {
		return fmt.Errorf("smoothing_factor must be positive, got %g", c.Fluid.SmoothingFactor)
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Run.Dt)
	}
	if c.Run.WarmupSteps < 0 {
		return fmt.Errorf("warmup_steps must not be negative, got %d", c.Run.WarmupSteps)
	}
	return nil
}

// BuildWorld constructs a world with the configured parameters and scene.
func (c *Config) BuildWorld() *fluid.World {
	w := fluid.NewWorld(
		c.Fluid.SmoothingFactor,
		c.Fluid.ParticleDensity,
		c.Fluid.FluidDensity,
		c.Fluid.SpeedOfSound,
		c.Fluid.Viscosity,
	)
	w.SetGravity(fluid.Vec2{X: c.Fluid.GravityX, Y: c.Fluid.GravityY})
	if c.Run.Seed != 0 {
		w.Reseed(c.Run.Seed)
	}
	for _, r := range c.Scene.FluidRects {
		w.AddFluidRect(fluid.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}, r.Jitter)
	}
	for _, l := range c.Scene.BoundaryLines {
		w.AddBoundaryLine(fluid.Vec2{X: l.X1, Y: l.Y1}, fluid.Vec2{X: l.X2, Y: l.Y2})
	}
	return w
}
