package booking

import (
	"testing"

	"slotbook/internal/fault"
	"slotbook/internal/model"
)

func TestRequiredUnits(t *testing.T) {
	cases := []struct {
		service, slot, want int
	}{
		{30, 30, 1},
		{60, 30, 2},
		{75, 30, 3},
		{90, 60, 2},
		{45, 60, 1},
		{0, 30, 0},
		{30, 0, 0},
	}
	for _, c := range cases {
		if got := RequiredUnits(c.service, c.slot); got != c.want {
			t.Fatalf("RequiredUnits(%d, %d) = %d, want %d", c.service, c.slot, got, c.want)
		}
	}
}

func TestChainStarts(t *testing.T) {
	starts, ok := ChainStarts(540, 30, 3)
	if !ok {
		t.Fatal("chain should fit")
	}
	want := []int{540, 570, 600}
	if len(starts) != len(want) {
		t.Fatalf("got %v, want %v", starts, want)
	}
	for i := range want {
		if starts[i] != want[i] {
			t.Fatalf("got %v, want %v", starts, want)
		}
	}
}

func TestChainStartsRejectsCrossingMidnight(t *testing.T) {
	if _, ok := ChainStarts(23*60+30, 30, 2); ok {
		t.Fatal("chain past midnight should not fit")
	}
	if starts, ok := ChainStarts(23*60+30, 30, 1); !ok || starts[0] != 23*60+30 {
		t.Fatalf("chain ending exactly at midnight should fit, got %v ok=%v", starts, ok)
	}
}

func TestTransitionConfirm(t *testing.T) {
	if apply, err := transition(model.StatusPending, model.StatusConfirmed); err != nil || !apply {
		t.Fatalf("pending->confirmed: apply=%v err=%v", apply, err)
	}
	if _, err := transition(model.StatusConfirmed, model.StatusConfirmed); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("confirmed->confirmed should conflict, got %v", err)
	}
	if _, err := transition(model.StatusCancelled, model.StatusConfirmed); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("cancelled->confirmed should conflict, got %v", err)
	}
	if _, err := transition(model.StatusCompleted, model.StatusConfirmed); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("completed->confirmed should conflict, got %v", err)
	}
}

func TestTransitionCancel(t *testing.T) {
	for _, from := range []string{model.StatusPending, model.StatusConfirmed} {
		if apply, err := transition(from, model.StatusCancelled); err != nil || !apply {
			t.Fatalf("%s->cancelled: apply=%v err=%v", from, apply, err)
		}
	}
	apply, err := transition(model.StatusCancelled, model.StatusCancelled)
	if err != nil {
		t.Fatalf("repeat cancel should not error, got %v", err)
	}
	if apply {
		t.Fatal("repeat cancel should be a no-op")
	}
	if _, err := transition(model.StatusCompleted, model.StatusCancelled); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("completed->cancelled should conflict, got %v", err)
	}
}

func TestTransitionComplete(t *testing.T) {
	for _, from := range []string{model.StatusPending, model.StatusConfirmed} {
		if apply, err := transition(from, model.StatusCompleted); err != nil || !apply {
			t.Fatalf("%s->completed: apply=%v err=%v", from, apply, err)
		}
	}
	if _, err := transition(model.StatusCancelled, model.StatusCompleted); !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("cancelled->completed should conflict, got %v", err)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	if _, err := transition(model.StatusPending, "archived"); !fault.IsKind(err, fault.InvalidInput) {
		t.Fatalf("unknown status should be invalid input, got %v", err)
	}
}
