package interrupt

import "testing"

func TestTriggerInvokesRegisteredHandler(t *testing.T) {
	c := New()
	var got any
	c.RegisterHandler(5, "test", func(data any) { got = data })

	if ok := c.TriggerInterrupt(5, "payload"); !ok {
		t.Fatal("expected trigger to succeed")
	}
	if got != "payload" {
		t.Fatalf("expected handler invoked with payload, got %v", got)
	}
}

func TestTriggerUnboundLineFails(t *testing.T) {
	c := New()
	if ok := c.TriggerInterrupt(99, nil); ok {
		t.Fatal("expected trigger on unbound line to fail")
	}
}

func TestDisabledLineDropsTrigger(t *testing.T) {
	c := New()
	called := false
	c.RegisterHandler(1, "test", func(any) { called = true })
	c.DisableInterrupt(1)

	if ok := c.TriggerInterrupt(1, nil); ok {
		t.Fatal("expected trigger to fail while line disabled")
	}
	if called {
		t.Fatal("expected handler not invoked while disabled")
	}
}

func TestGlobalDisableDropsAllLines(t *testing.T) {
	c := New()
	called := false
	c.RegisterHandler(1, "test", func(any) { called = true })
	c.DisableInterrupts()

	if ok := c.TriggerInterrupt(1, nil); ok {
		t.Fatal("expected trigger to fail while globally disabled")
	}
	if called {
		t.Fatal("expected handler not invoked while globally disabled")
	}

	c.EnableInterrupts()
	if ok := c.TriggerInterrupt(1, nil); !ok {
		t.Fatal("expected trigger to succeed after re-enabling")
	}
}

func TestDuplicateRegisterFails(t *testing.T) {
	c := New()
	c.RegisterHandler(1, "a", func(any) {})
	if ok := c.RegisterHandler(1, "b", func(any) {}); ok {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestTriggerCountIncrementsOnlyOnActualDispatch(t *testing.T) {
	c := New()
	c.RegisterHandler(1, "a", func(any) {})
	c.DisableInterrupt(1)
	c.TriggerInterrupt(1, nil)
	c.EnableInterrupt(1)
	c.TriggerInterrupt(1, nil)
	c.TriggerInterrupt(1, nil)

	got, ok := c.TriggerCount(1)
	if !ok || got != 2 {
		t.Fatalf("expected count 2, got %d ok=%v", got, ok)
	}
}

func TestTimerForwardsTicksToHandler(t *testing.T) {
	c := New()
	var seen uint64
	c.RegisterHandler(TimerInterruptNumber, "timer", func(data any) {
		seen = data.(uint64)
	})

	timer := NewTimer(c)
	timer.Tick()
	timer.Tick()
	timer.Tick()

	if timer.Ticks() != 3 {
		t.Fatalf("expected 3 ticks, got %d", timer.Ticks())
	}
	if seen != 3 {
		t.Fatalf("expected handler to observe tick 3, got %d", seen)
	}
}
