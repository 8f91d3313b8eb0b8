package playback

import (
	"context"
	"time"

	"spikeplay/internal/util"
)

// Orchestrator runs the live playback loop: one ticker, one controller,
// strictly serialized ticks. Advance is called inline from the select loop
// so at most one tick is ever in flight.
type Orchestrator struct {
	cfg        Config
	controller *Controller
}

// NewOrchestrator wraps a loaded controller.
func NewOrchestrator(cfg Config, controller *Controller) *Orchestrator {
	return &Orchestrator{cfg: cfg, controller: controller}
}

// Run starts playback and ticks until the context is cancelled, the
// configured tick budget is spent, or a one-shot run reaches its last frame.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.controller.Start(); err != nil {
		return err
	}
	defer o.controller.Stop()

	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Playback interrupted")
			return nil

		case <-ticker.C:
			if _, err := o.controller.Advance(); err != nil {
				return err
			}
			ticks++
			if o.cfg.MaxTicks > 0 && ticks >= o.cfg.MaxTicks {
				util.LogInfof("Tick budget reached after %d frames", ticks)
				return nil
			}
			if !o.cfg.Loop && o.controller.AtEnd() {
				util.LogInfo("Reached last frame")
				return nil
			}
		}
	}
}
