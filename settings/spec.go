package settings

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/bouncyballs/common"
	"github.com/milk9111/bouncyballs/modes"
	"github.com/milk9111/bouncyballs/physics"
	"github.com/milk9111/bouncyballs/sound"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// DefaultSpec is the embedded simulation spec loaded at startup.
const DefaultSpec = "simulation.yaml"

var ErrInvalidColor = errors.New("settings: invalid color")

// SimulationSpec is the YAML document that drives a scene. Every field is
// optional; anything left out falls back to physics.DefaultConfig or
// modes.DefaultOptions when built. Lengths and speeds are in CSS pixels and
// are multiplied by the device pixel ratio in Build.
type SimulationSpec struct {
	Name         string      `yaml:"name,omitempty"`
	Mode         string      `yaml:"mode,omitempty"`
	Seed         *int64      `yaml:"seed,omitempty"`
	WarmupFrames *int        `yaml:"warmup_frames,omitempty"`
	Bodies       BodiesSpec  `yaml:"bodies"`
	Physics      PhysicsSpec `yaml:"physics"`
	Solver       SolverSpec  `yaml:"solver"`
	Sleep        SleepSpec   `yaml:"sleep"`
	Walls        WallsSpec   `yaml:"walls"`
	Palette      PaletteSpec `yaml:"palette"`
	Audio        AudioSpec   `yaml:"audio"`
}

type BodiesSpec struct {
	Count     *int     `yaml:"count,omitempty"`
	MinRadius *float64 `yaml:"min_radius,omitempty"`
	MaxRadius *float64 `yaml:"max_radius,omitempty"`
	MaxSpeed  *float64 `yaml:"max_speed,omitempty"`
	Strength  *float64 `yaml:"strength,omitempty"`
	Reach     *float64 `yaml:"reach,omitempty"`
	Script    string   `yaml:"script,omitempty"`
}

type PhysicsSpec struct {
	Gravity      *float64 `yaml:"gravity,omitempty"`
	Restitution  *float64 `yaml:"restitution,omitempty"`
	Friction     *float64 `yaml:"friction,omitempty"`
	Drag         *float64 `yaml:"drag,omitempty"`
	LowSpeedDrag *float64 `yaml:"low_speed_drag,omitempty"`
	SpacingRatio *float64 `yaml:"spacing_ratio,omitempty"`
	BodyMass     *float64 `yaml:"body_mass,omitempty"`
	MaxBodies    *int     `yaml:"max_bodies,omitempty"`
	SpinTransfer *float64 `yaml:"spin_transfer,omitempty"`
	SpinDecay    *float64 `yaml:"spin_decay,omitempty"`
	SquashScale  *float64 `yaml:"squash_scale,omitempty"`
	SquashDecay  *float64 `yaml:"squash_decay,omitempty"`
}

type SolverSpec struct {
	Iterations        *int     `yaml:"iterations,omitempty"`
	SoftIterations    *int     `yaml:"soft_iterations,omitempty"`
	Soft              *bool    `yaml:"soft,omitempty"`
	CorrectionPercent *float64 `yaml:"correction_percent,omitempty"`
	Slop              *float64 `yaml:"slop,omitempty"`
	MaxCorrection     *float64 `yaml:"max_correction,omitempty"`
	RestingSpeed      *float64 `yaml:"resting_speed,omitempty"`
	EventThreshold    *float64 `yaml:"event_threshold,omitempty"`
}

type SleepSpec struct {
	Velocity     *float64 `yaml:"velocity,omitempty"`
	Angular      *float64 `yaml:"angular,omitempty"`
	TimeToSleep  *float64 `yaml:"time_to_sleep,omitempty"`
	WakeRadius   *float64 `yaml:"wake_radius,omitempty"`
	WakeVelocity *float64 `yaml:"wake_velocity,omitempty"`
}

type WallsSpec struct {
	Inset              *float64 `yaml:"inset,omitempty"`
	Thickness          *float64 `yaml:"thickness,omitempty"`
	Gap                *float64 `yaml:"gap,omitempty"`
	CornerRadius       *float64 `yaml:"corner_radius,omitempty"`
	OpenTop            *bool    `yaml:"open_top,omitempty"`
	RollingFriction    *float64 `yaml:"rolling_friction,omitempty"`
	Segments           *int     `yaml:"segments,omitempty"`
	Stiffness          *float64 `yaml:"stiffness,omitempty"`
	Damping            *float64 `yaml:"damping,omitempty"`
	MaxDeform          *float64 `yaml:"max_deform,omitempty"`
	SettlingSpeed      *float64 `yaml:"settling_speed,omitempty"`
	ProgressiveDamping *float64 `yaml:"progressive_damping,omitempty"`
	PressureDamping    *float64 `yaml:"pressure_damping,omitempty"`
	ImpactScale        *float64 `yaml:"impact_scale,omitempty"`
	ImpactWidth        *float64 `yaml:"impact_width,omitempty"`
	PressureScale      *float64 `yaml:"pressure_scale,omitempty"`
	SamplePrecision    *int     `yaml:"sample_precision,omitempty"`
	SampleSpacing      *float64 `yaml:"sample_spacing,omitempty"`
}

type PaletteSpec struct {
	Background *YAMLColor  `yaml:"background,omitempty"`
	Wall       *YAMLColor  `yaml:"wall,omitempty"`
	Balls      []YAMLColor `yaml:"balls,omitempty"`
}

type AudioSpec struct {
	Enabled    *bool    `yaml:"enabled,omitempty"`
	Volume     *float64 `yaml:"volume,omitempty"`
	CooldownMS *int     `yaml:"cooldown_ms,omitempty"`
	BaseFreq   *float64 `yaml:"base_freq,omitempty"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("settings: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("settings: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSimulationSpec(filename string) (*SimulationSpec, error) {
	spec, err := LoadSpec[SimulationSpec](filename)
	if err != nil {
		return nil, err
	}
	if _, err := spec.Kind(); err != nil {
		return nil, fmt.Errorf("settings: %s: %w", filename, err)
	}
	return &spec, nil
}

// Marshal encodes spec as YAML.
func Marshal(spec SimulationSpec) ([]byte, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("settings: marshal: %w", err)
	}
	return data, nil
}

// Kind returns the scene mode; an empty mode is the pit.
func (s *SimulationSpec) Kind() (modes.Kind, error) {
	if strings.TrimSpace(s.Mode) == "" {
		return modes.Pit, nil
	}
	return modes.ParseKind(s.Mode)
}

func (s *SimulationSpec) SeedValue() int64 {
	if s.Seed == nil {
		return 1
	}
	return *s.Seed
}

func (s *SimulationSpec) Warmup() int {
	if s.WarmupFrames == nil || *s.WarmupFrames < 0 {
		return common.WarmupFrames
	}
	return *s.WarmupFrames
}

type floatField struct {
	spec   **float64
	cfg    *float64
	scaled bool
}

type intField struct {
	spec **int
	cfg  *int
}

type boolField struct {
	spec **bool
	cfg  *bool
}

// fields pairs every optional spec value with the config field it sets.
// scaled marks lengths and speeds that get the device pixel ratio.
func (s *SimulationSpec) fields(cfg *physics.Config) ([]floatField, []intField, []boolField) {
	p, so, sl, w := &s.Physics, &s.Solver, &s.Sleep, &s.Walls
	floats := []floatField{
		{&p.Gravity, &cfg.Gravity, true},
		{&p.Restitution, &cfg.Restitution, false},
		{&p.Friction, &cfg.Friction, false},
		{&p.Drag, &cfg.Drag, false},
		{&p.LowSpeedDrag, &cfg.LowSpeedDrag, false},
		{&p.SpacingRatio, &cfg.SpacingRatio, false},
		{&p.BodyMass, &cfg.BodyMass, false},
		{&p.SpinTransfer, &cfg.SpinTransfer, false},
		{&p.SpinDecay, &cfg.SpinDecay, false},
		{&p.SquashScale, &cfg.SquashScale, false},
		{&p.SquashDecay, &cfg.SquashDecay, false},

		{&so.CorrectionPercent, &cfg.CorrectionPercent, false},
		{&so.Slop, &cfg.Slop, true},
		{&so.MaxCorrection, &cfg.SoftMaxCorrection, true},
		{&so.RestingSpeed, &cfg.RestingSpeed, true},
		{&so.EventThreshold, &cfg.EventThreshold, false},

		{&sl.Velocity, &cfg.SleepVelocity, true},
		{&sl.Angular, &cfg.SleepAngular, false},
		{&sl.TimeToSleep, &cfg.TimeToSleep, false},
		{&sl.WakeRadius, &cfg.WakeRadius, true},
		{&sl.WakeVelocity, &cfg.WakeVelocity, true},

		{&w.Inset, &cfg.WallInset, true},
		{&w.Thickness, &cfg.WallThickness, true},
		{&w.Gap, &cfg.WallGap, true},
		{&w.CornerRadius, &cfg.CornerRadius, true},
		{&w.RollingFriction, &cfg.RollingFriction, false},
		{&w.SampleSpacing, &cfg.WallSampleSpacing, true},
		{&w.Stiffness, &cfg.Wall.Stiffness, false},
		{&w.Damping, &cfg.Wall.Damping, false},
		{&w.MaxDeform, &cfg.Wall.MaxDeform, true},
		{&w.SettlingSpeed, &cfg.Wall.SettlingSpeed, false},
		{&w.ProgressiveDamping, &cfg.Wall.ProgressiveDamping, false},
		{&w.PressureDamping, &cfg.Wall.PressureDamping, false},
		{&w.ImpactScale, &cfg.Wall.ImpactScale, false},
		{&w.ImpactWidth, &cfg.Wall.ImpactWidth, false},
		{&w.PressureScale, &cfg.Wall.PressureScale, false},
	}
	ints := []intField{
		{&p.MaxBodies, &cfg.MaxBodies},
		{&so.Iterations, &cfg.SolverIterations},
		{&so.SoftIterations, &cfg.SoftIterations},
		{&w.Segments, &cfg.Wall.Segments},
		{&w.SamplePrecision, &cfg.WallSamplePrecision},
	}
	bools := []boolField{
		{&so.Soft, &cfg.SoftSolver},
		{&w.OpenTop, &cfg.OpenTop},
	}
	return floats, ints, bools
}

// Build turns the spec into a physics config for a canvas of width x height
// device pixels. Missing values take their defaults; the remaining defaults
// that are lengths or speeds are scaled by dpr as well.
func (s *SimulationSpec) Build(width, height, dpr float64) physics.Config {
	if !(dpr > 0) {
		dpr = 1
	}
	cfg := physics.DefaultConfig()
	// internal tunables with no spec field are lengths or speeds too
	for _, v := range []*float64{
		&cfg.LowSpeedDragSpeed, &cfg.SnapSpeed, &cfg.GravitySkipSpeed,
		&cfg.MaxImpactSpeed, &cfg.ContactSkin,
		&cfg.Wall.ImpactThreshold, &cfg.Wall.Snap, &cfg.Wall.VisibleThreshold,
	} {
		*v *= dpr
	}

	floats, ints, bools := s.fields(&cfg)
	for _, f := range floats {
		if *f.spec != nil {
			*f.cfg = **f.spec
		}
		if f.scaled {
			*f.cfg *= dpr
		}
	}
	for _, f := range ints {
		if *f.spec != nil {
			*f.cfg = **f.spec
		}
	}
	for _, f := range bools {
		if *f.spec != nil {
			*f.cfg = **f.spec
		}
	}
	cfg.Width = width
	cfg.Height = height
	return cfg
}

// Resolved returns a copy with every physics value filled in, which is what
// the control panel exports.
func (s SimulationSpec) Resolved() SimulationSpec {
	out := s
	cfg := out.Build(physics.DefaultConfig().Width, physics.DefaultConfig().Height, 1)
	floats, ints, bools := out.fields(&cfg)
	for _, f := range floats {
		v := *f.cfg
		*f.spec = &v
	}
	for _, f := range ints {
		v := *f.cfg
		*f.spec = &v
	}
	for _, f := range bools {
		v := *f.cfg
		*f.spec = &v
	}

	opts := out.Options(1)
	out.Bodies.Count = &opts.Count
	out.Bodies.MinRadius = &opts.MinRadius
	out.Bodies.MaxRadius = &opts.MaxRadius
	out.Bodies.MaxSpeed = &opts.MaxSpeed
	out.Bodies.Strength = &opts.Strength
	out.Bodies.Reach = &opts.Reach
	if out.Mode == "" {
		out.Mode = modes.Pit.String()
	}
	return out
}

// Options returns the mode options with lengths and speeds scaled by dpr.
// The script source is not loaded here.
func (s *SimulationSpec) Options(dpr float64) modes.Options {
	if !(dpr > 0) {
		dpr = 1
	}
	opts := modes.DefaultOptions()
	b := &s.Bodies
	if b.Count != nil {
		opts.Count = *b.Count
	}
	if b.MinRadius != nil {
		opts.MinRadius = *b.MinRadius
	}
	if b.MaxRadius != nil {
		opts.MaxRadius = *b.MaxRadius
	}
	if b.MaxSpeed != nil {
		opts.MaxSpeed = *b.MaxSpeed
	}
	if b.Strength != nil {
		opts.Strength = *b.Strength
	}
	if b.Reach != nil {
		opts.Reach = *b.Reach
	}
	opts.MinRadius *= dpr
	opts.MaxRadius *= dpr
	opts.MaxSpeed *= dpr
	opts.Reach *= dpr
	opts.ScriptName = b.Script
	return opts
}

// SoundConfig returns the collision sound settings.
func (s *SimulationSpec) SoundConfig() sound.Config {
	cfg := sound.DefaultConfig()
	a := &s.Audio
	if a.Enabled != nil {
		cfg.Enabled = *a.Enabled
	}
	if a.Volume != nil {
		cfg.Volume = *a.Volume
	}
	if a.CooldownMS != nil && *a.CooldownMS >= 0 {
		cfg.Cooldown = time.Duration(*a.CooldownMS) * time.Millisecond
	}
	if a.BaseFreq != nil && *a.BaseFreq > 0 {
		cfg.BaseFreq = *a.BaseFreq
	}
	return cfg
}

// Palette is the resolved set of scene colors.
type Palette struct {
	Background color.Color
	Wall       color.Color
	Balls      []color.Color
}

func (p PaletteSpec) Resolve() Palette {
	out := Palette{
		Background: colornames.Black,
		Wall:       colornames.Whitesmoke,
		Balls: []color.Color{
			colornames.Tomato, colornames.Gold, colornames.Mediumseagreen,
			colornames.Cornflowerblue, colornames.Orchid, colornames.Lightsalmon,
		},
	}
	if p.Background != nil && p.Background.Color != nil {
		out.Background = p.Background.Color
	}
	if p.Wall != nil && p.Wall.Color != nil {
		out.Wall = p.Wall.Color
	}
	if len(p.Balls) > 0 {
		out.Balls = out.Balls[:0:0]
		for _, c := range p.Balls {
			if c.Color != nil {
				out.Balls = append(out.Balls, c.Color)
			}
		}
	}
	return out
}

// BallColor picks a stable color for a body id.
func (p Palette) BallColor(id physics.BodyID) color.Color {
	if len(p.Balls) == 0 {
		return colornames.White
	}
	return p.Balls[int(id)%len(p.Balls)]
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: must be a string", ErrInvalidColor)
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("%w: %s", ErrInvalidColor, value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidColor, value.Value)
		}
		return uint8(v), nil
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}
	a := uint8(255)
	if len(s) == 8 {
		if a, err = parse(6); err != nil {
			return err
		}
	}

	c.Color = color.RGBA{R: r, G: g, B: b, A: a}
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	rgba := color.RGBAModel.Convert(c.Color).(color.RGBA)
	if rgba.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A), nil
}

// Float returns a pointer to v, for setting optional spec fields.
func Float(v float64) *float64 {
	return &v
}

// BuildMode creates the scene mode, loading the named script when the mode
// needs one.
func (s *SimulationSpec) BuildMode(dpr float64) (modes.Mode, error) {
	kind, err := s.Kind()
	if err != nil {
		return nil, err
	}
	opts := s.Options(dpr)
	if kind == modes.Script && opts.ScriptName != "" {
		src, err := LoadScript(opts.ScriptName)
		if err != nil {
			return nil, fmt.Errorf("settings: load script %s: %w", opts.ScriptName, err)
		}
		opts.Script = src
	}
	return modes.New(kind, opts)
}
