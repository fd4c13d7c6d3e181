package video

// g3 and g2 are the hardware's fixed gamma tables for the 3-3-2
// palette's 3-bit and 2-bit channels. They are not a linear ramp — the
// original firmware's LCD gamma curve dips shallow at the low end and
// steepens toward white, and the values are taken verbatim from it
// rather than recomputed.
var (
	g3 = [8]byte{0, 5, 21, 47, 83, 130, 187, 255}
	g2 = [4]byte{0, 28, 113, 255}
)

// channel identifies one of the four bytes of a host pixel.
type channel int

const (
	chanR channel = iota
	chanG
	chanB
	chanA
)

// BuildPalette expands all 256 values of the 3-3-2 (RRRGGGBB) index
// space into 4-byte host pixels. redByteIndex names which of the four
// output bytes carries red, negotiated with the host window at
// startup: the remaining channels fill in {g, b, a} order when red
// sits in the low half of the word (index 0 or 1), or in reverse,
// {a, b, g}, when it sits in the high half (index 2 or 3).
func BuildPalette(redByteIndex int) [256][4]byte {
	pos := [4]int{}
	pos[chanR] = redByteIndex

	order := [3]channel{chanG, chanB, chanA}
	if redByteIndex >= 2 {
		order = [3]channel{chanA, chanB, chanG}
	}
	slot := (redByteIndex + 1) % 4
	for _, ch := range order {
		pos[ch] = slot
		slot = (slot + 1) % 4
	}

	var pal [256][4]byte
	for idx := 0; idx < 256; idx++ {
		r := g3[(idx>>5)&0x7]
		g := g3[(idx>>2)&0x7]
		b := g2[idx&0x3]

		var px [4]byte
		px[pos[chanR]] = r
		px[pos[chanG]] = g
		px[pos[chanB]] = b
		px[pos[chanA]] = 0xFF
		pal[idx] = px
	}
	return pal
}
