package scanner

import (
	"context"
	"fmt"
	"huddygate/src-server/claim"
	"strings"
	"time"
)

type Claimer interface {
	Claim(ctx context.Context, kind, code string) (*claim.Result, error)
}

// Outcome is what the station shows for one submitted code.
type Outcome struct {
	Code    string
	Kind    string
	Result  *claim.Result
	Err     error
	Message string
}

type Runner struct {
	Station  *Station
	Cooldown *Cooldown
	Claimer  Claimer
	Kind     string
	// Hold is how long an outcome stays on screen before scanning resumes.
	Hold time.Duration
	// Prepare runs while initializing, e.g. a connectivity check.
	Prepare func(ctx context.Context) error
	Show    func(Outcome)
}

// Run reads codes until ctx is done or codes is closed. Codes sent while an
// outcome is on screen wait until the station scans again.
func (r *Runner) Run(ctx context.Context, codes <-chan string) error {
	if _, err := r.Station.Fire(EVENT_START); err != nil {
		return fmt.Errorf("(*Runner).Run: %w", err)
	}
	if r.Prepare != nil {
		if err := r.Prepare(ctx); err != nil {
			r.Station.Fire(EVENT_FAIL)
			return fmt.Errorf("(*Runner).Run: can't initialize: %w", err)
		}
	}
	if _, err := r.Station.Fire(EVENT_READY); err != nil {
		return fmt.Errorf("(*Runner).Run: %w", err)
	}
	defer r.Station.Fire(EVENT_STOP)

	for {
		select {
		case <-ctx.Done():
			return nil
		case code, ok := <-codes:
			if !ok {
				return nil
			}
			code = strings.TrimSpace(code)
			if code == "" || !r.Cooldown.Allow(code) {
				continue
			}
			if err := r.handle(ctx, code); err != nil {
				return fmt.Errorf("(*Runner).Run: %w", err)
			}
		}
	}
}

func (r *Runner) handle(ctx context.Context, code string) error {
	if _, err := r.Station.Fire(EVENT_SCAN); err != nil {
		return err
	}
	res, err := r.Claimer.Claim(ctx, r.Kind, code)
	if _, fireErr := r.Station.Fire(EVENT_RESULT); fireErr != nil {
		return fireErr
	}
	r.Show(Outcome{
		Code:    code,
		Kind:    r.Kind,
		Result:  res,
		Err:     err,
		Message: claim.Message(r.Kind, res, err),
	})

	if r.Hold > 0 {
		timer := time.NewTimer(r.Hold)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	_, err = r.Station.Fire(EVENT_RESET)
	return err
}
