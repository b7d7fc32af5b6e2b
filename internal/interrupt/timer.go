package interrupt

// TimerInterruptNumber is the line the timer driver fires on.
const TimerInterruptNumber = 0

// Timer is a driver that advances a tick counter and raises
// TimerInterruptNumber on the controller it was built with. Whatever is
// registered at that line (typically a forward to a scheduler's Tick)
// runs synchronously on the caller that calls Tick.
type Timer struct {
	controller *Controller
	ticks      uint64
}

// NewTimer builds a Timer wired to controller.
func NewTimer(controller *Controller) *Timer {
	return &Timer{controller: controller}
}

// Tick advances the tick counter and raises the timer interrupt.
func (t *Timer) Tick() {
	t.ticks++
	t.controller.TriggerInterrupt(TimerInterruptNumber, t.ticks)
}

// Ticks returns the cumulative number of ticks driven so far.
func (t *Timer) Ticks() uint64 {
	return t.ticks
}
