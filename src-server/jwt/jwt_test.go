package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeDecode(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	token, err := Encode(NewPayload("gate-1", now, time.Hour), "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	payload, err := Decode(token, "s3cret", now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if payload.Subject != "gate-1" {
		t.Errorf("unexpected subject %q", payload.Subject)
	}

	if _, err := Decode(token, "wrong", now); err == nil {
		t.Error("expected a signature error with the wrong secret")
	}
	if _, err := Decode(token, "s3cret", now.Add(2*time.Hour)); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
	if _, err := Decode("a.b", "s3cret", now); err == nil {
		t.Error("expected an error for a malformed token")
	}
}
