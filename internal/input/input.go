// Package input implements the host→firmware key state: a 24-bit
// bitmask ROM code reads through the key port at MEM[0x00], plus the few high
// bits the host itself watches for (quit, reset, power-off, idle-wake,
// screen-blanked) rather than forwarding to the CPU. The live register
// is latched once per scheduler tick so the CPU always sees a stable
// snapshot rather than whatever the host mutates mid-instruction.
package input

// Button bit positions within the low 7 bits of Keys. Which of these
// a given hardware model wires up is decided by the host, per the
// model's key table; bits the model doesn't have simply never get
// set.
const (
	BitUp = iota
	BitDown
	BitLeft
	BitRight
	BitA
	BitB
	BitC
)

// Host-reserved bits: set by the windowing layer, never by the
// firmware, and masked out of what CPU reads see.
const (
	BitQuit = 16 + iota
	BitReset
	BitPowerOff
	BitIdleWake
	BitScreenBlanked
)

const hostBitsMask = uint32(0x1F) << 16

// Input holds the current and latched 24-bit key register.
type Input struct {
	current uint32
	latched uint32
}

// New returns an Input with no keys held.
func New() *Input {
	return &Input{}
}

// Set or clears a single bit in the live register, called by the host
// on every key-down/key-up event.
func (in *Input) Set(bit int, down bool) {
	if down {
		in.current |= 1 << uint(bit)
	} else {
		in.current &^= 1 << uint(bit)
	}
}

// Latch snapshots the live register. The firmware only ever observes
// the latched value — called once per scheduler tick so a key event
// arriving mid-frame can't produce a half-updated read inside a single
// BIOS call.
func (in *Input) Latch() {
	in.latched = in.current
}

// Keys returns the latched 24-bit register, the value the memory bus's
// key port (MEM[0x00]) hands back to ROM code, masked and inverted.
func (in *Input) Keys() uint32 {
	return in.latched
}

// HostSignal reports whether a host-reserved bit is set in the
// latched register (quit, reset, power-off, idle-wake, blanked).
func (in *Input) HostSignal(bit int) bool {
	return in.latched&(1<<uint(bit)) != 0
}

// ClearHostSignal clears a one-shot host bit (reset and power-off are
// edge events, not held state) from both the live and latched copies.
func (in *Input) ClearHostSignal(bit int) {
	mask := uint32(1) << uint(bit)
	in.current &^= mask
	in.latched &^= mask
}

// FirmwareKeys masks the register down to the bits ROM code is
// allowed to see — the host-reserved high bits never reach the key
// port.
func FirmwareKeys(keys uint32) uint32 {
	return keys &^ hostBitsMask
}
