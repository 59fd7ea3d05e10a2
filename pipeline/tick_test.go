package pipeline

import "testing"

func TestTickAccumulatesUntilInterval(t *testing.T) {
	acc := NewTickAccumulator(5)
	for i := 0; i < 4; i++ {
		if acc.Advance(1) {
			t.Fatalf("due after %.0f elapsed, interval is 5", float64(i+1))
		}
	}
	if !acc.Advance(1) {
		t.Fatalf("not due after 5 elapsed")
	}
	acc.Consume()
	if acc.Advance(0.5) {
		t.Fatalf("due again immediately after Consume")
	}
}

func TestTickFirstNudgeAlwaysFires(t *testing.T) {
	acc := NewTickAccumulator(1)
	if !acc.Nudge() {
		t.Fatalf("the first event nudge must make a cycle due")
	}
}

func TestTickNudgeStormIsThrottled(t *testing.T) {
	acc := NewTickAccumulator(1)
	fired := 0
	for i := 0; i < 100; i++ {
		if acc.Nudge() {
			fired++
			acc.Consume()
		}
	}
	if fired != 1 {
		t.Fatalf("nudge storm with no elapsed time fired %d cycles, want 1", fired)
	}

	// elapsed time refills the credit
	acc.Advance(2)
	acc.Consume()
	if !acc.Nudge() {
		t.Fatalf("nudge after elapsed time must fire")
	}
}

func TestTickConsumeCapsResidue(t *testing.T) {
	acc := NewTickAccumulator(2)
	acc.Advance(50)
	acc.Consume()
	if acc.Advance(0) {
		t.Fatalf("a long stall must not burst into back-to-back cycles")
	}
}

func TestTickNonPositiveIntervalClamped(t *testing.T) {
	acc := NewTickAccumulator(0)
	if acc.Advance(0.5) {
		t.Fatalf("clamped interval should be 1, 0.5 elapsed is not due")
	}
	if !acc.Advance(0.5) {
		t.Fatalf("1.0 elapsed must be due with the clamped interval")
	}
}
