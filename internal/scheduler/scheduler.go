// Package scheduler implements the frame loop spec.md §4.I describes:
// idle-timer decrement, the wall-clock-to-tick conversion the firmware
// reads, the periodic game-tick dispatch (skipped the frame after a
// WAI), input integration, and pacing output to a fixed FPS.
package scheduler

import (
	"fmt"
	"time"

	"toumapet/internal/debug"
	"toumapet/internal/emulator"
	"toumapet/internal/host"
	"toumapet/internal/input"
	"toumapet/internal/video"
)

// FPS is the fixed output rate spec.md §4.I.6 names.
const FPS = 30

// MMIO offsets the scheduler itself reads or writes, distinct from the
// ones internal/emulator.Bus intercepts: these are plain RAM cells the
// firmware's own tick/animation logic expects to find seeded.
const (
	addrStartAnim  = 0xA3
	addrObfKey     = 0x99
	addrIdleTimer  = 0x181 // 16-bit, little-endian
	addrTickAccum  = 0xAF
	addrTickReady  = 0x93
	addrDateBase   = 0x1DF
)

// Scheduler drives one Emulator against one host.Window: seed cold
// start, then loop frame/tick/present/sleep until the host signals
// quit or the firmware requests power-off.
type Scheduler struct {
	Emu   *emulator.Emulator
	Host  host.Window
	Model host.Model
	Zoom  int

	palette [256][4]byte

	lastTime    time.Time
	dispAnchor  time.Time
	frameIx     int
	prevWaited  bool

	logger *debug.Logger
}

// New wires a scheduler to an emulator and a not-yet-opened host
// window.
func New(emu *emulator.Emulator, w host.Window, model host.Model, zoom int, logger *debug.Logger) *Scheduler {
	s := &Scheduler{Emu: emu, Host: w, Model: model, Zoom: zoom, logger: logger}
	emu.Bus.PumpEvents = s.pumpInput
	return s
}

// Open negotiates the host's pixel layout and builds the matching
// gamma-expanded palette.
func (s *Scheduler) Open(title string) error {
	redByteIndex, err := s.Host.Open(s.Emu.FB.W, s.Emu.FB.H, s.Zoom, title)
	if err != nil {
		return fmt.Errorf("scheduler: opening host window: %w", err)
	}
	s.palette = video.BuildPalette(redByteIndex)
	return nil
}

// ColdStart seeds the registers the firmware's own cold-start routine
// expects (spec.md §4.I) and runs it to completion.
func (s *Scheduler) ColdStart(updateTime bool) error {
	s.Emu.Bus.RAM[addrStartAnim] |= 1
	s.Emu.Bus.RAM[addrObfKey] = s.Emu.ROM.Key
	if updateTime {
		s.seedWallClock()
	}
	s.lastTime = time.Now()
	s.dispAnchor = time.Now()
	s.frameIx = 0
	s.prevWaited = false

	addr, size := s.Emu.ROM.ColdStart()
	_, err := s.Emu.RunFrame(addr, size)
	if err != nil {
		return fmt.Errorf("scheduler: cold start: %w", err)
	}
	return nil
}

// seedWallClock writes the local date/time into the firmware's clock
// cells per spec.md §4.I's optional --update-time behavior: year,
// month, day, hour, minute, second, with seconds doubled the way the
// firmware's own clock tick (half-seconds) expects.
func (s *Scheduler) seedWallClock() {
	now := time.Now()
	ram := &s.Emu.Bus.RAM
	ram[addrDateBase+0] = byte(now.Year() - 2000)
	ram[addrDateBase+1] = byte(now.Month())
	ram[addrDateBase+2] = byte(now.Day())
	ram[addrDateBase+3] = byte(now.Hour())
	ram[addrDateBase+4] = byte(now.Minute())
	ram[addrDateBase+5] = byte(now.Second() * 2)
}

// Run drives frames until the host signals quit, the firmware
// requests power-off, or a frame returns an error. There is no other
// way to stop it; callers that need to stop earlier call Step in
// their own loop instead.
func (s *Scheduler) Run() error {
	for {
		done, err := s.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step advances exactly one frame: idle-timer decrement, wall-clock
// tick accumulation, the periodic tick dispatch (unless the previous
// frame idled in WAI), presentation, and the inter-frame sleep. It
// returns done=true once the session should end (quit or power-off).
func (s *Scheduler) Step() (done bool, err error) {
	s.decrementIdleTimer()
	s.accumulateTick()

	if !s.prevWaited {
		s.Emu.Bus.RAM[addrTickReady] |= 0x10
		addr, size := s.Emu.ROM.TickEntry()
		waited, err := s.Emu.RunFrame(addr, size)
		if err != nil {
			return false, fmt.Errorf("scheduler: frame %d: %w", s.frameIx, err)
		}
		s.prevWaited = waited
	} else {
		s.prevWaited = false
	}

	s.Emu.Input.Latch()
	if s.Emu.Input.HostSignal(input.BitScreenBlanked) {
		for i := range s.Emu.FB.Pix {
			s.Emu.FB.Pix[i] = 0
		}
		s.Emu.Input.ClearHostSignal(input.BitScreenBlanked)
	}

	if err := s.Host.Blit(s.Emu.FB, s.palette); err != nil {
		return false, fmt.Errorf("scheduler: presenting frame %d: %w", s.frameIx, err)
	}

	s.pumpInput()
	if s.Emu.Input.HostSignal(input.BitQuit) {
		return true, nil
	}
	if s.Emu.Bus.PowerOff {
		return true, nil
	}
	if s.Emu.Input.HostSignal(input.BitReset) {
		s.Emu.Input.ClearHostSignal(input.BitReset)
		if err := s.reset(); err != nil {
			return false, err
		}
		return false, nil
	}

	s.sleepUntilNextFrame()
	s.frameIx++
	return false, nil
}

// decrementIdleTimer decrements the 16-bit idle timer at 0x181,
// never below zero.
func (s *Scheduler) decrementIdleTimer() {
	ram := &s.Emu.Bus.RAM
	v := uint16(ram[addrIdleTimer]) | uint16(ram[addrIdleTimer+1])<<8
	if v > 0 {
		v--
	}
	ram[addrIdleTimer] = byte(v)
	ram[addrIdleTimer+1] = byte(v >> 8)
}

// accumulateTick converts elapsed wall-clock time into the firmware's
// fixed-point 256ths-of-a-second tick register at 0xAF. lastTime only
// advances by the time the whole ticks added account for, so the
// leftover fraction of a tick carries into the next frame instead of
// accumulating drift.
func (s *Scheduler) accumulateTick() {
	elapsed := time.Since(s.lastTime)

	delta := (elapsed.Milliseconds() * 256) / 1000
	if delta <= 0 {
		return
	}
	s.lastTime = s.lastTime.Add(time.Duration(delta) * time.Second / 256)
	v := int(s.Emu.Bus.RAM[addrTickAccum]) + int(delta)
	s.Emu.Bus.RAM[addrTickAccum] = byte(v)
}

// pumpInput drains the host event queue and latches the result,
// called once per frame boundary in addition to the opportunistic
// pump internal/emulator.Bus performs every 16 reads of the key port.
func (s *Scheduler) pumpInput() {
	for _, ev := range s.Host.PumpEvents() {
		switch ev.Kind {
		case host.EventQuit:
			s.Emu.Input.Set(input.BitQuit, true)
		case host.EventKeyDown, host.EventKeyUp:
			down := ev.Kind == host.EventKeyDown
			action, ok := host.ActionFor(ev.Key)
			if !ok {
				continue
			}
			s.applyAction(action, down)
		}
	}
	s.Emu.Input.Latch()
}

func (s *Scheduler) applyAction(a host.Action, down bool) {
	switch a {
	case host.ActionLeftButton:
		s.Emu.Input.Set(host.ButtonBit(s.Model, host.ButtonLeft), down)
	case host.ActionMiddleButton:
		s.Emu.Input.Set(host.ButtonBit(s.Model, host.ButtonMiddle), down)
	case host.ActionRightButton:
		s.Emu.Input.Set(host.ButtonBit(s.Model, host.ButtonRight), down)
	case host.ActionSideLeftButton:
		s.Emu.Input.Set(host.ButtonBit(s.Model, host.ButtonSideLeft), down)
	case host.ActionSideRightButton:
		s.Emu.Input.Set(host.ButtonBit(s.Model, host.ButtonSideRight), down)
	case host.ActionReset:
		if down {
			s.Emu.Input.Set(input.BitReset, true)
		}
	case host.ActionQuit:
		if down {
			s.Emu.Input.Set(input.BitQuit, true)
		}
	}
}

// reset clears the low key byte, wipes CPU state, and re-enters cold
// start, per spec.md §4.I's reset-request handling.
func (s *Scheduler) reset() error {
	for bit := 0; bit < 8; bit++ {
		s.Emu.Input.Set(bit, false)
	}
	s.Emu.Input.Latch()
	s.Emu.CPU.Reset()
	for i := range s.Emu.Bus.RAM {
		s.Emu.Bus.RAM[i] = 0
	}
	s.Emu.Bus.PowerOff = false
	return s.ColdStart(false)
}

// sleepUntilNextFrame paces output to FPS, anchored to dispAnchor so a
// slow frame doesn't accumulate debt forever; a deadline that's
// already past reseeds the anchor instead of sleeping zero or
// negative duration forever.
func (s *Scheduler) sleepUntilNextFrame() {
	deadline := s.dispAnchor.Add(time.Duration(s.frameIx+1) * time.Second / FPS)
	wait := time.Until(deadline)
	if wait <= 0 {
		s.dispAnchor = time.Now()
		s.frameIx = -1
		return
	}
	time.Sleep(wait)
}
