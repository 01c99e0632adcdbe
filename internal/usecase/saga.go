package usecase

import (
	"context"
	"log"
)

// sagaStep is one forward action with the compensation that undoes it.
// compensate may be nil for steps that leave nothing behind.
type sagaStep struct {
	name       string
	action     func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs steps in order. When step i fails, the compensations of steps
// 0..i-1 run in reverse order and the step error is returned unchanged.
type saga struct {
	name  string
	steps []sagaStep
}

func newSaga(name string, steps ...sagaStep) *saga {
	return &saga{name: name, steps: steps}
}

func (s *saga) run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.action(ctx); err != nil {
			log.Printf("[saga][%s] step failed step=%s err=%v", s.name, step.name, err)
			s.compensate(ctx, i)
			return err
		}
	}
	return nil
}

// compensate ignores the caller's cancellation: a half-applied saga must be
// unwound even when the inbound request is gone.
func (s *saga) compensate(ctx context.Context, failed int) {
	ctx = context.WithoutCancel(ctx)
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Printf("[saga][%s] compensation failed step=%s err=%v", s.name, step.name, err)
			continue
		}
		log.Printf("[saga][%s] compensated step=%s", s.name, step.name)
	}
}
