package model_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"huddygate/src-server/model"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	bundb := bun.NewDB(db, sqlitedialect.New())
	t.Cleanup(func() { bundb.Close() })

	if err := model.CreateSchema(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func insert(t *testing.T, db bun.IDB, code, email string, entered, gifted bool) {
	t.Helper()
	a := &model.Attendee{
		Name:       "name " + code,
		Email:      email,
		UniqueCode: code,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.Upsert(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	if entered || gifted {
		if _, err := db.NewUpdate().
			Model((*model.Attendee)(nil)).
			Set("is_entered = ?", entered).
			Set("is_gifted = ?", gifted).
			Where("unique_code = ?", code).
			Exec(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAttendee(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	insert(t, db, "A1", "X@y.com ", false, false)
	insert(t, db, "A2", "x@y.com", false, false)
	insert(t, db, "B1", "b@y.com", false, false)

	// case: lookup by code, email was normalized on write
	func() {
		a, err := model.FindAttendeeByCode(ctx, db, "A1")
		if err != nil {
			t.Fatal(err)
		}
		if a.Email != "x@y.com" {
			t.Errorf("email not normalized: %q", a.Email)
		}
		if a.IsEntered || a.IsGifted {
			t.Error("new attendee should have no flags set")
		}
	}()

	// case: unknown code
	func() {
		if _, err := model.FindAttendeeByCode(ctx, db, "ZZZ"); !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("expected sql.ErrNoRows, got %v", err)
		}
	}()

	// case: re-registering the same code updates, doesn't duplicate
	func() {
		a := &model.Attendee{Name: "Renamed", Email: "x@y.com", UniqueCode: "A1"}
		if err := a.Upsert(ctx, db); err != nil {
			t.Fatal(err)
		}
		count, err := model.CountAttendees(ctx, db)
		if err != nil {
			t.Fatal(err)
		}
		if count != 3 {
			t.Errorf("expected 3 attendees, got %d", count)
		}
		got, err := model.FindAttendeeByCode(ctx, db, "A1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "Renamed" {
			t.Errorf("upsert didn't update name: %q", got.Name)
		}
	}()

	// case: entry marks the whole email group and only that group
	func() {
		updated, err := model.MarkEnteredByEmail(ctx, db, "x@y.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(updated) != 2 {
			t.Fatalf("expected 2 updated rows, got %d", len(updated))
		}
		for _, u := range updated {
			if !u.IsEntered {
				t.Errorf("%s returned without is_entered", u.UniqueCode)
			}
		}
		other, err := model.FindAttendeeByCode(ctx, db, "B1")
		if err != nil {
			t.Fatal(err)
		}
		if other.IsEntered {
			t.Error("B1 must not be entered")
		}
	}()

	// case: gift update is conditional
	func() {
		updated, err := model.MarkGiftedByEmail(ctx, db, "b@y.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(updated) != 0 {
			t.Errorf("not-entered group must not be gifted, got %d rows", len(updated))
		}

		updated, err = model.MarkGiftedByEmail(ctx, db, "x@y.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(updated) != 2 {
			t.Errorf("expected 2 gifted rows, got %d", len(updated))
		}

		updated, err = model.MarkGiftedByEmail(ctx, db, "x@y.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(updated) != 0 {
			t.Errorf("second gift update must touch nothing, got %d rows", len(updated))
		}
	}()

	// case: re-registration keeps the claim flags
	func() {
		a := &model.Attendee{Name: "Again", Email: "x@y.com", UniqueCode: "A2"}
		if err := a.Upsert(ctx, db); err != nil {
			t.Fatal(err)
		}
		if !a.IsEntered || !a.IsGifted {
			t.Errorf("flags lost on re-registration: %+v", a)
		}
	}()
}

func TestAttendeeUpsertValidation(t *testing.T) {
	db := newTestDB(t)
	for _, a := range []*model.Attendee{
		{Name: "n", Email: "e@x.io"},
		{Email: "e@x.io", UniqueCode: "C"},
		{Name: "n", Email: "   ", UniqueCode: "C"},
	} {
		if err := a.Upsert(context.Background(), db); err == nil {
			t.Errorf("expected error for %+v", a)
		}
	}
}
