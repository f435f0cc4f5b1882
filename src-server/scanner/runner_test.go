package scanner

import (
	"context"
	"errors"
	"huddygate/src-server/claim"
	"sync"
	"testing"
	"time"
)

type fakeClaimer struct {
	mu    sync.Mutex
	codes []string
}

func (f *fakeClaimer) Claim(_ context.Context, kind, code string) (*claim.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	if code == "NOPE" {
		return nil, &claim.DeniedError{Reason: claim.REASON_NOT_FOUND}
	}
	return &claim.Result{Name: "Guest " + code}, nil
}

func TestRunner(t *testing.T) {
	claimer := new(fakeClaimer)
	var outcomes []Outcome
	r := &Runner{
		Station:  NewStation(),
		Cooldown: NewCooldown(time.Hour),
		Claimer:  claimer,
		Kind:     claim.KIND_ENTRY,
		Show:     func(o Outcome) { outcomes = append(outcomes, o) },
	}

	codes := make(chan string, 5)
	for _, code := range []string{"A1", " A1 ", "", "NOPE", "B1"} {
		codes <- code
	}
	close(codes)

	if err := r.Run(context.Background(), codes); err != nil {
		t.Fatal(err)
	}
	if len(claimer.codes) != 3 {
		t.Fatalf("expected 3 submissions after cooldown, got %v", claimer.codes)
	}
	want := []string{
		"Hey Guest A1, welcome to the event!",
		"User does not exist, please register.",
		"Hey Guest B1, welcome to the event!",
	}
	for idx, o := range outcomes {
		if o.Message != want[idx] {
			t.Errorf("outcome %d: expected %q, got %q", idx, want[idx], o.Message)
		}
	}
	if r.Station.State() != STATE_IDLE {
		t.Errorf("station should be idle after run, got %s", r.Station.State())
	}
}

func TestRunnerPrepareFails(t *testing.T) {
	r := &Runner{
		Station:  NewStation(),
		Cooldown: NewCooldown(time.Second),
		Claimer:  new(fakeClaimer),
		Prepare:  func(context.Context) error { return errors.New("no camera") },
		Show:     func(Outcome) {},
	}
	if err := r.Run(context.Background(), make(chan string)); err == nil {
		t.Fatal("expected an init error")
	}
	if r.Station.State() != STATE_IDLE {
		t.Errorf("failed init should go back to idle, got %s", r.Station.State())
	}
}
