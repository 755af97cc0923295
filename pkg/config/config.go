// Package config loads the optional scrollkit.yaml tuning file and
// resolves it against the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/scrollkit/pkg/gestures"
	"github.com/go-drift/scrollkit/pkg/physics"
)

// FileName is the tuning file looked up by LoadOptional.
const FileName = "scrollkit.yaml"

// File represents the optional scrollkit.yaml configuration. Zero-valued
// numeric fields and absent booleans fall back to defaults at Resolve
// time.
type File struct {
	Physics    PhysicsSection    `yaml:"physics"`
	Delegation DelegationSection `yaml:"delegation"`
	Gesture    GestureSection    `yaml:"gesture"`
}

// PhysicsSection tunes the overscroll effect.
type PhysicsSection struct {
	RubberBandCoeff       float64 `yaml:"rubber_band_coeff,omitempty"`
	SpringStiffness       float64 `yaml:"spring_stiffness,omitempty"`
	SpringMass            float64 `yaml:"spring_mass,omitempty"`
	FrictionDecay         float64 `yaml:"friction_decay,omitempty"`
	SettleEpsilonPosition float64 `yaml:"settle_epsilon_position,omitempty"`
	SettleEpsilonVelocity float64 `yaml:"settle_epsilon_velocity,omitempty"`
}

// DelegationSection tunes the gesture delegation switches.
type DelegationSection struct {
	ParallelDelegation *bool `yaml:"parallel_delegation,omitempty"`
	DelegateToOuter    *bool `yaml:"delegate_to_outer,omitempty"`
}

// GestureSection tunes session creation.
type GestureSection struct {
	StartDelayFrames int     `yaml:"start_delay_frames,omitempty"`
	LockDistance     float64 `yaml:"lock_distance,omitempty"`
}

// Resolved holds the validated, default-filled configuration.
type Resolved struct {
	Physics  physics.Config
	Gestures gestures.Options
}

// Default returns the resolved stock configuration.
func Default() *Resolved {
	return &Resolved{
		Physics:  physics.DefaultConfig(),
		Gestures: gestures.DefaultOptions(),
	}
}

// LoadOptional reads scrollkit.yaml from dir if present. A missing file
// yields an empty File, which resolves to the defaults.
func LoadOptional(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &f, nil
}

// Resolve fills defaults and validates. Invalid values produce errors,
// never panics.
func (f *File) Resolve() (*Resolved, error) {
	r := Default()

	p := f.Physics
	if p.RubberBandCoeff != 0 {
		r.Physics.RubberBandCoeff = p.RubberBandCoeff
	}
	if p.SpringStiffness != 0 {
		r.Physics.SpringStiffness = p.SpringStiffness
	}
	if p.SpringMass != 0 {
		r.Physics.SpringMass = p.SpringMass
	}
	if p.FrictionDecay != 0 {
		r.Physics.FrictionDecay = p.FrictionDecay
	}
	if p.SettleEpsilonPosition != 0 {
		r.Physics.SettleEpsilonPosition = p.SettleEpsilonPosition
	}
	if p.SettleEpsilonVelocity != 0 {
		r.Physics.SettleEpsilonVelocity = p.SettleEpsilonVelocity
	}

	if f.Delegation.ParallelDelegation != nil {
		r.Gestures.ParallelDelegation = *f.Delegation.ParallelDelegation
	}
	if f.Delegation.DelegateToOuter != nil {
		r.Gestures.DelegateToOuter = *f.Delegation.DelegateToOuter
	}
	if f.Gesture.StartDelayFrames != 0 {
		r.Gestures.GestureStartDelayFrames = f.Gesture.StartDelayFrames
	}
	if f.Gesture.LockDistance != 0 {
		r.Gestures.LockDistance = f.Gesture.LockDistance
	}

	if err := validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

func validate(r *Resolved) error {
	p := r.Physics
	if p.SpringStiffness <= 0 {
		return fmt.Errorf("spring_stiffness must be positive, got %g", p.SpringStiffness)
	}
	if p.SpringMass <= 0 {
		return fmt.Errorf("spring_mass must be positive, got %g", p.SpringMass)
	}
	if p.RubberBandCoeff <= 0 {
		return fmt.Errorf("rubber_band_coeff must be positive, got %g", p.RubberBandCoeff)
	}
	if p.FrictionDecay < 0 {
		return fmt.Errorf("friction_decay must not be negative, got %g", p.FrictionDecay)
	}
	if p.SettleEpsilonPosition < 0 || p.SettleEpsilonVelocity < 0 {
		return errors.New("settle epsilons must not be negative")
	}
	g := r.Gestures
	if g.GestureStartDelayFrames < 0 {
		return fmt.Errorf("start_delay_frames must not be negative, got %d", g.GestureStartDelayFrames)
	}
	if g.LockDistance < 0 {
		return fmt.Errorf("lock_distance must not be negative, got %g", g.LockDistance)
	}
	return nil
}
