// Package main provides a headless trajectory tuner. It releases an
// overscroll effect from a chosen state and prints the trajectory frame
// by frame until it settles, which makes it easy to compare parameter
// sets without a UI.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-drift/scrollkit/pkg/config"
	"github.com/go-drift/scrollkit/pkg/physics"
)

func main() {
	var (
		configDir = flag.String("config", ".", "directory to look up scrollkit.yaml in")
		position  = flag.Float64("position", 0, "scroll offset at release")
		velocity  = flag.Float64("velocity", -800, "velocity at release, units per second")
		minExtent = flag.Float64("min", 0, "minimum scroll extent")
		maxExtent = flag.Float64("max", 1000, "maximum scroll extent")
		viewportE = flag.Float64("viewport", 600, "viewport extent along the scrolled axis")
		fps       = flag.Float64("fps", 60, "simulation frame rate")
		maxFrames = flag.Int("max-frames", 600, "abort after this many frames")
		quiet     = flag.Bool("quiet", false, "print only the summary line")
	)
	flag.Parse()

	if *fps <= 0 {
		fmt.Fprintln(os.Stderr, "Error: fps must be positive")
		os.Exit(1)
	}

	file, err := config.LoadOptional(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	resolved, err := file.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config: %v\n", err)
		os.Exit(1)
	}

	effect := physics.NewEffect(resolved.Physics, *minExtent, *maxExtent, *viewportE)
	effect.Begin(*position, 0)
	if err := effect.Release(*velocity); err != nil {
		fmt.Fprintf(os.Stderr, "Error releasing effect: %v\n", err)
		os.Exit(1)
	}

	dt := 1.0 / *fps
	peak := math.Abs(effect.Overscroll())
	frame := 0
	for effect.CurrentPhase() == physics.PhaseReleasing {
		if frame >= *maxFrames {
			fmt.Fprintf(os.Stderr, "Error: not settled after %d frames\n", *maxFrames)
			os.Exit(1)
		}
		if err := effect.Advance(dt); err != nil {
			fmt.Fprintf(os.Stderr, "Error advancing effect: %v\n", err)
			os.Exit(1)
		}
		frame++
		if over := math.Abs(effect.Overscroll()); over > peak {
			peak = over
		}
		if !*quiet {
			mode := "spring"
			if effect.IsCoasting() {
				mode = "coast"
			}
			fmt.Printf("t=%7.3fs  position=%9.3f  velocity=%9.3f  overscroll=%8.3f  %s\n",
				float64(frame)*dt, effect.Position(), effect.Velocity(), effect.Overscroll(), mode)
		}
	}

	fmt.Printf("settled after %d frames (%.3fs): position=%.3f peak_overscroll=%.3f\n",
		frame, float64(frame)*dt, effect.Position(), peak)
}
