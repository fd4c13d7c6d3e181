package scheduler

import (
	"testing"

	"toumapet/internal/emulator"
	"toumapet/internal/host"
	"toumapet/internal/rom"
	"toumapet/internal/video"
)

// fakeWindow is a headless host.Window: it records what it was asked
// to do instead of touching SDL, so the scheduler's frame loop can be
// exercised without a display.
type fakeWindow struct {
	opened   bool
	blits    int
	events   []host.Event
	closed   bool
}

func (w *fakeWindow) Open(width, height, zoom int, title string) (int, error) {
	w.opened = true
	return 0, nil
}
func (w *fakeWindow) Blit(fb *video.Framebuffer, pal [256][4]byte) error {
	w.blits++
	return nil
}
func (w *fakeWindow) PumpEvents() []host.Event {
	ev := w.events
	w.events = nil
	return ev
}
func (w *fakeWindow) Close() { w.closed = true }

var rtsOverlay = []byte{0x60}

func buildROM(t *testing.T) *rom.ROM {
	t.Helper()
	img := rom.NewBuilder(0, 0).
		SetResourceTable(0x40).
		SetColdStart(0x1000, 1).
		SetTickEntry(0x1100, 1).
		PutBytes(0x1000, rtsOverlay).
		PutBytes(0x1100, rtsOverlay).
		Build()
	r, err := rom.New(img, nil)
	if err != nil {
		t.Fatalf("rom.New: %v", err)
	}
	return r
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeWindow) {
	t.Helper()
	r := buildROM(t)
	fb := video.NewFramebuffer(emulator.ScreenHeight550)
	emu := emulator.New(r, fb, nil)
	win := &fakeWindow{}
	s := New(emu, win, host.Model550, 2, nil)
	if err := s.Open("test"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, win
}

func TestColdStartSeedsFirmwareState(t *testing.T) {
	s, win := newTestScheduler(t)
	if err := s.ColdStart(false); err != nil {
		t.Fatalf("ColdStart: %v", err)
	}
	if !win.opened {
		t.Error("expected the window to be opened before cold start runs")
	}
	if s.Emu.Bus.RAM[addrStartAnim]&1 == 0 {
		t.Error("expected bit 0 of MEM[0xA3] to be set")
	}
	if s.Emu.Bus.RAM[addrObfKey] != s.Emu.ROM.Key {
		t.Errorf("MEM[0x99] = 0x%02X, want the ROM key 0x%02X", s.Emu.Bus.RAM[addrObfKey], s.Emu.ROM.Key)
	}
}

func TestStepAdvancesAndPresentsAFrame(t *testing.T) {
	s, win := newTestScheduler(t)
	if err := s.ColdStart(false); err != nil {
		t.Fatalf("ColdStart: %v", err)
	}

	done, err := s.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if done {
		t.Fatal("expected Step to report not-done for a plain RTS tick")
	}
	if win.blits != 1 {
		t.Errorf("blits = %d, want 1", win.blits)
	}
}

func TestStepHonorsHostQuit(t *testing.T) {
	s, win := newTestScheduler(t)
	if err := s.ColdStart(false); err != nil {
		t.Fatalf("ColdStart: %v", err)
	}
	win.events = []host.Event{{Kind: host.EventQuit}}

	done, err := s.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !done {
		t.Fatal("expected Step to report done after a quit event")
	}
}

func TestStepHonorsPowerOff(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.ColdStart(false); err != nil {
		t.Fatalf("ColdStart: %v", err)
	}
	s.Emu.Bus.PowerOff = true

	done, err := s.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !done {
		t.Fatal("expected Step to report done once Bus.PowerOff is set")
	}
}

func TestActionForAppliesModelBitMapping(t *testing.T) {
	s, win := newTestScheduler(t)
	if err := s.ColdStart(false); err != nil {
		t.Fatalf("ColdStart: %v", err)
	}
	win.events = []host.Event{{Kind: host.EventKeyDown, Key: host.KeyA}}

	if _, err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	bit := host.ButtonBit(host.Model550, host.ButtonLeft)
	if s.Emu.Input.Keys()&(1<<uint(bit)) == 0 {
		t.Errorf("expected bit %d set after KeyA down on Model550", bit)
	}
}
