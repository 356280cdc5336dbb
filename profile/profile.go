// Package profile loads experiment profiles: the connection to the instrument, the input
// discriminator settings and the coincidence setup, described in YAML.
//
//	host: 192.168.1.10
//	dialTimeout: 3s
//	inputs:
//	  - index: 1
//	    threshold: 0.5
//	    edge: RISING
//	  - index: 2
//	    delay: 1200
//	coincidence:
//	  fold: 3
//	  arms:
//	    - {delay: 1000, width: 500}
//	    - {delay: 2000, width: 500}
//	acquisition: 1s
package profile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-id900/id900"
	"github.com/arloliu/go-id900/scpi"
)

// ErrInvalidProfile indicates that a profile failed validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile describes one experiment.
type Profile struct {
	Host        string         `yaml:"host"`
	Port        int            `yaml:"port,omitempty"`
	DialTimeout time.Duration  `yaml:"dialTimeout,omitempty"`
	LogLevel    string         `yaml:"logLevel,omitempty"`
	Inputs      []InputSetting `yaml:"inputs,omitempty"`
	Coincidence *Coincidence   `yaml:"coincidence,omitempty"`
	// Acquisition is the length of the acquisition gate, zero leaves sampling untouched.
	Acquisition time.Duration `yaml:"acquisition,omitempty"`
}

// InputSetting overrides the initial state of one input. Unset fields are left as is.
type InputSetting struct {
	Index     int      `yaml:"index"`
	Enable    *bool    `yaml:"enable,omitempty"`
	Coupling  string   `yaml:"coupling,omitempty"`
	Edge      string   `yaml:"edge,omitempty"`
	Threshold *float64 `yaml:"threshold,omitempty"`
	Delay     *int64   `yaml:"delay,omitempty"`
	Mode      string   `yaml:"mode,omitempty"`
}

// Coincidence selects the coincidence routing.
type Coincidence struct {
	// Fold is 2 or 3.
	Fold int `yaml:"fold"`
	// Window is the 2-fold coincidence window in picoseconds.
	Window int64 `yaml:"window,omitempty"`
	// Arms are the 3-fold arms of inputs 2 and 3 relative to input 1.
	Arms []id900.Arm `yaml:"arms,omitempty"`
}

// Load reads and validates the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the profile against the ranges accepted by the instrument.
func (p *Profile) Validate() error {
	if p.Host == "" {
		return invalid("host is required")
	}
	if p.Acquisition < 0 {
		return invalid("acquisition must not be negative")
	}

	seen := make(map[int]bool, len(p.Inputs))
	for _, in := range p.Inputs {
		if in.Index < 1 || in.Index > id900.NumInputs {
			return invalid("input index %d out of range [1, %d]", in.Index, id900.NumInputs)
		}
		if seen[in.Index] {
			return invalid("input %d configured twice", in.Index)
		}
		seen[in.Index] = true

		if err := in.validate(); err != nil {
			return err
		}
	}

	if p.Coincidence != nil {
		return p.Coincidence.validate()
	}

	return nil
}

func (in InputSetting) validate() error {
	switch id900.Coupling(in.Coupling) {
	case "", id900.AC, id900.DC:
	default:
		return invalid("input %d: unknown coupling %q", in.Index, in.Coupling)
	}

	switch id900.Edge(in.Edge) {
	case "", id900.Rising, id900.Falling:
	default:
		return invalid("input %d: unknown edge %q", in.Index, in.Edge)
	}

	switch id900.Mode(in.Mode) {
	case "", id900.HighRes, id900.LowRes:
	default:
		return invalid("input %d: unknown mode %q", in.Index, in.Mode)
	}

	if in.Threshold != nil && (*in.Threshold < -2 || *in.Threshold > 2) {
		return invalid("input %d: threshold %gV out of range [-2, 2]", in.Index, *in.Threshold)
	}

	return nil
}

func (c *Coincidence) validate() error {
	switch c.Fold {
	case 2:
		if c.Window <= 0 {
			return invalid("2-fold coincidence needs a positive window")
		}
	case 3:
		if len(c.Arms) != 2 {
			return invalid("3-fold coincidence needs 2 arms, got %d", len(c.Arms))
		}
		for i, arm := range c.Arms {
			if arm.Delay < 0 || arm.Width <= 0 {
				return invalid("arm %d: delay must not be negative and width must be positive", i+2)
			}
		}
	default:
		return invalid("unsupported coincidence fold %d", c.Fold)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProfile, fmt.Sprintf(format, args...))
}

// ConnOptions returns the connection options described by the profile.
func (p *Profile) ConnOptions() []scpi.ConnOption {
	var opts []scpi.ConnOption
	if p.Port != 0 {
		opts = append(opts, scpi.WithPort(p.Port))
	}
	if p.DialTimeout != 0 {
		opts = append(opts, scpi.WithDialTimeout(p.DialTimeout))
	}

	return opts
}

// Apply pushes the input settings and the coincidence routing to d, then restarts the
// acquisition when one is configured.
func (p *Profile) Apply(d *id900.Device) error {
	if err := p.Validate(); err != nil {
		return err
	}

	for _, setting := range p.Inputs {
		if err := setting.apply(d.Input(setting.Index)); err != nil {
			return fmt.Errorf("input %d: %w", setting.Index, err)
		}
	}

	if c := p.Coincidence; c != nil {
		var err error
		switch c.Fold {
		case 2:
			err = d.Config2FoldCoincidence(c.Window)
		case 3:
			err = d.Config3FoldCoincidence(c.Arms[0].Delay, c.Arms[0].Width, c.Arms[1].Delay, c.Arms[1].Width)
		}
		if err != nil {
			return err
		}
	}

	if p.Acquisition > 0 {
		if err := d.FlushHistograms(); err != nil {
			return err
		}
		if err := d.EnableSampling(p.Acquisition); err != nil {
			return err
		}
	}

	return nil
}

func (in InputSetting) apply(input *id900.Input) error {
	if in.Enable != nil {
		state := id900.Off
		if *in.Enable {
			state = id900.On
		}
		if err := input.SetEnabled(state); err != nil {
			return err
		}
	}
	if in.Coupling != "" {
		if err := input.SetCoupling(id900.Coupling(in.Coupling)); err != nil {
			return err
		}
	}
	if in.Edge != "" {
		if err := input.SetEdge(id900.Edge(in.Edge)); err != nil {
			return err
		}
	}
	if in.Threshold != nil {
		if err := input.SetThreshold(*in.Threshold); err != nil {
			return err
		}
	}
	if in.Delay != nil {
		if err := input.SetDelay(*in.Delay); err != nil {
			return err
		}
	}
	if in.Mode != "" {
		return input.SetMode(id900.Mode(in.Mode))
	}

	return nil
}
