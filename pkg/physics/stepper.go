package physics

import "sync"

// maxStepDelta caps the integration step so a stalled frame does not make
// the trajectory catch up all at once.
const maxStepDelta = 0.032

var (
	stepMu    sync.Mutex
	releasing = make(map[*Effect]struct{})
)

func register(e *Effect) {
	stepMu.Lock()
	releasing[e] = struct{}{}
	stepMu.Unlock()
}

func unregister(e *Effect) {
	stepMu.Lock()
	delete(releasing, e)
	stepMu.Unlock()
}

// HasActive returns true if any effect is currently releasing.
func HasActive() bool {
	stepMu.Lock()
	defer stepMu.Unlock()
	return len(releasing) > 0
}

// StepAll advances every releasing effect using the package clock.
// Call once per frame from the embedder's frame loop.
func StepAll() {
	now := Now()
	for _, effect := range snapshotReleasing() {
		dt := now.Sub(effect.lastStep).Seconds()
		effect.lastStep = now
		if dt <= 0 {
			continue
		}
		if dt > maxStepDelta {
			dt = maxStepDelta
		}
		// Advance cannot fail here: only releasing effects are registered.
		_ = effect.Advance(dt)
	}
}

// StepBy advances every releasing effect by a fixed dt in seconds, for
// embedders that supply their own frame deltas.
func StepBy(dt float64) {
	if dt <= 0 {
		return
	}
	now := Now()
	for _, effect := range snapshotReleasing() {
		effect.lastStep = now
		_ = effect.Advance(dt)
	}
}

// snapshotReleasing copies the registry so callbacks never run under the
// lock.
func snapshotReleasing() []*Effect {
	stepMu.Lock()
	defer stepMu.Unlock()
	if len(releasing) == 0 {
		return nil
	}
	effects := make([]*Effect, 0, len(releasing))
	for effect := range releasing {
		effects = append(effects, effect)
	}
	return effects
}
