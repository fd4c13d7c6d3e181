package input

import "testing"

func TestLatchSnapshotsLiveState(t *testing.T) {
	in := New()
	in.Set(BitA, true)
	in.Latch()
	if in.Keys()&(1<<BitA) == 0 {
		t.Fatal("expected BitA set after latch")
	}

	in.Set(BitA, false)
	if in.Keys()&(1<<BitA) == 0 {
		t.Fatal("clearing the live bit before a latch should not affect the latched read")
	}

	in.Latch()
	if in.Keys()&(1<<BitA) != 0 {
		t.Fatal("expected BitA clear after the second latch")
	}
}

func TestFirmwareKeysMasksHostBits(t *testing.T) {
	in := New()
	in.Set(BitUp, true)
	in.Set(BitQuit, true)
	in.Latch()

	fw := FirmwareKeys(in.Keys())
	if fw&(1<<BitUp) == 0 {
		t.Error("expected BitUp visible to firmware")
	}
	if fw&(1<<BitQuit) != 0 {
		t.Error("BitQuit must not be visible to firmware")
	}
}

func TestClearHostSignalIsOneShot(t *testing.T) {
	in := New()
	in.Set(BitReset, true)
	in.Latch()
	if !in.HostSignal(BitReset) {
		t.Fatal("expected reset signal set")
	}
	in.ClearHostSignal(BitReset)
	if in.HostSignal(BitReset) {
		t.Error("expected reset signal cleared")
	}
}
