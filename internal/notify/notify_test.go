package notify

import (
	"context"
	"testing"
)

func TestFanout_DeliversToLateTargets(t *testing.T) {
	first := &Recorder{}
	f := NewFanout(first)

	f.Notify(context.Background(), New(SeverityInfo, "one"))

	second := &Recorder{}
	f.Add(second)
	f.Notify(context.Background(), New(SeveritySuccess, "two"))

	if got := len(first.All()); got != 2 {
		t.Errorf("first target got %d notifications, want 2", got)
	}
	all := second.All()
	if len(all) != 1 || all[0].Message != "two" || all[0].Severity != SeveritySuccess {
		t.Errorf("second target got %+v", all)
	}
}

func TestRecorder_Count(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	r.Notify(ctx, New(SeverityInfo, "connecting"))
	r.Notify(ctx, New(SeverityInfo, "connecting"))
	r.Notify(ctx, New(SeverityError, "failed"))

	if r.Count("connecting") != 2 {
		t.Errorf("Count(connecting) = %d", r.Count("connecting"))
	}
}

func TestFunc(t *testing.T) {
	var got Notification
	var n Notifier = Func(func(_ context.Context, x Notification) { got = x })
	n.Notify(context.Background(), New(SeverityWarning, "w"))
	if got.Severity != SeverityWarning {
		t.Errorf("got %+v", got)
	}
}
