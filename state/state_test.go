package state

import (
	"testing"
)

func TestDispatchAppliesAndNotifies(t *testing.T) {
	applied := 0
	s := New(AppState{App: AppInfo{Name: "depot"}}, func(st AppState, a Action) AppState {
		applied++
		if f, ok := a.(FilterPackagesBy); ok {
			st.App.Name = f.Origin
		}
		return st
	})

	notified := 0
	s.Subscribe(func() { notified++ })

	s.Dispatch(FilterPackagesBy{Origin: "core", Name: "nginx"})

	if applied != 1 {
		t.Errorf("apply ran %d times, want 1", applied)
	}
	if notified != 1 {
		t.Errorf("subscriber ran %d times, want 1", notified)
	}
	if got := s.GetState().App.Name; got != "core" {
		t.Errorf("state not applied: App.Name = %q", got)
	}
}

func TestDispatchNilApply(t *testing.T) {
	s := New(AppState{Session: Session{Token: "tok"}}, nil)
	s.Dispatch(DemotePackage{Origin: "core"})
	if got := s.GetState().Session.Token; got != "tok" {
		t.Errorf("nil apply mutated state: token = %q", got)
	}
}

func TestSubscribeCancel(t *testing.T) {
	s := New(AppState{}, nil)

	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	s.Dispatch(struct{}{})
	cancel()
	s.Dispatch(struct{}{})
	cancel() // second cancel is a no-op

	if calls != 1 {
		t.Errorf("subscriber ran %d times after cancel, want 1", calls)
	}
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := New(AppState{}, func(st AppState, a Action) AppState {
		st.App.Name = "after"
		return st
	})

	var seen string
	s.Subscribe(func() { seen = s.GetState().App.Name })
	s.Dispatch(struct{}{})

	if seen != "after" {
		t.Errorf("subscriber saw %q, want post-apply state", seen)
	}
}

func TestSetStateNotifies(t *testing.T) {
	s := New(AppState{}, nil)
	notified := false
	s.Subscribe(func() { notified = true })

	s.SetState(AppState{App: AppInfo{Name: "loaded"}})

	if !notified {
		t.Error("SetState did not notify subscribers")
	}
	if got := s.GetState().App.Name; got != "loaded" {
		t.Errorf("App.Name = %q, want %q", got, "loaded")
	}
}
