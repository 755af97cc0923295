package physics

import "math"

// Config holds the tunable parameters for an overscroll effect.
//
// There is deliberately no damping field: the damping coefficient is always
// derived as 2·sqrt(stiffness·mass), the critical value at which the spring
// returns to its extent in minimum time without oscillating. Configuring it
// independently would reintroduce the bounce this effect exists to remove.
type Config struct {
	// RubberBandCoeff scales drag resistance beyond an extent. Lower values
	// feel stiffer, higher values more elastic.
	RubberBandCoeff float64

	// SpringStiffness is the spring constant k used when releasing from an
	// overscrolled position.
	SpringStiffness float64

	// SpringMass is the simulated mass m attached to the spring.
	SpringMass float64

	// FrictionDecay is the constant deceleration, in pixels per second
	// squared, applied while coasting inside the extents.
	FrictionDecay float64

	// SettleEpsilonPosition is the overscroll magnitude below which a
	// releasing effect may settle.
	SettleEpsilonPosition float64

	// SettleEpsilonVelocity is the speed below which a releasing effect
	// may settle.
	SettleEpsilonVelocity float64
}

// DefaultConfig returns the stock tuning. The spring values match the
// critically damped feel of platform scroll views.
func DefaultConfig() Config {
	return Config{
		RubberBandCoeff:       0.55,
		SpringStiffness:       100.0,
		SpringMass:            1.0,
		FrictionDecay:         1200.0,
		SettleEpsilonPosition: 0.5,
		SettleEpsilonVelocity: 2.0,
	}
}

// CriticalDamping returns the derived damping coefficient 2·sqrt(k·m).
func (c Config) CriticalDamping() float64 {
	return 2.0 * math.Sqrt(c.SpringStiffness*c.SpringMass)
}
