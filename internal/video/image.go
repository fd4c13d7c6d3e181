package video

// Image header layout: [W, 0x00, H, 0x80] followed by H RLE-encoded
// scanlines, walked row by row and column by column into the
// destination framebuffer.

const (
	FlipHorizontal = 1
	FlipVertical   = 2

	// NoColorKey disables the alpha color-key compare (draw_image and
	// draw_image_opaque); any other value in [0,255] is the key byte
	// draw_image_alpha skips.
	NoColorKey = -1

	// BlendNone means "store the source pixel raw" rather than half-sum
	// it with a blend color.
	BlendNone = 0xFF
)

// ImageHeader is the 4-byte prefix every resource image carries.
type ImageHeader struct {
	W, H int
}

// ReadImageHeader validates and parses the header at data[offset:].
func ReadImageHeader(data []byte, offset uint32) (ImageHeader, error) {
	if uint64(offset)+4 > uint64(len(data)) {
		return ImageHeader{}, errFatal("image header at 0x%06X runs past end of data", offset)
	}
	hdr := data[offset : offset+4]
	if hdr[1] != 0x00 || hdr[3] != 0x80 {
		return ImageHeader{}, errFatal("image header at 0x%06X has bad constant bytes %02X %02X", offset, hdr[1], hdr[3])
	}
	return ImageHeader{W: int(hdr[0]), H: int(hdr[2])}, nil
}

// DrawImage RLE-decodes and blits the image at data[offset:end) to
// (x, y), honoring flip and an optional blend color and color-key.
// end bounds every scanline read: a scanline whose declared length
// would read past end is a fatal RLE error, matching the firmware's
// own refusal to walk off the end of a resource.
func (f *Framebuffer) DrawImage(data []byte, offset, end uint32, x, y int, flip uint8, blend byte, colorKey int) error {
	if flip&^uint8(FlipHorizontal|FlipVertical) != 0 {
		return errFatal("invalid flip mask 0x%02X", flip)
	}

	hdr, err := ReadImageHeader(data, offset)
	if err != nil {
		return err
	}

	pos := offset + 4
	for sy := 0; sy < hdr.H; sy++ {
		if uint64(pos)+2 > uint64(end) {
			return errFatal("scanline %d header at 0x%06X runs past resource end 0x%06X", sy, pos, end)
		}
		rowLen := uint32(data[pos]) | uint32(data[pos+1])<<8
		if rowLen < 4 {
			return errFatal("scanline %d declares length %d, below the 4-byte minimum", sy, rowLen)
		}
		rowEnd := pos + rowLen
		if uint64(rowEnd) > uint64(end) {
			return errFatal("scanline %d spans 0x%06X..0x%06X, past resource end 0x%06X", sy, pos, rowEnd, end)
		}

		destRow := y + sy
		if flip&FlipVertical != 0 {
			destRow = y + (hdr.H - 1 - sy)
		}

		if err := f.decodeAndBlitRow(data, pos+2, pos+rowLen-2, hdr.W, x, destRow, flip&FlipHorizontal != 0, blend, colorKey); err != nil {
			return err
		}
		pos = rowEnd
	}
	return nil
}

// decodeAndBlitRow walks one RLE-encoded scanline body [bodyStart,
// bodyEnd), placing exactly width decoded pixels into destination row
// destRow starting at column x (or mirrored, right-to-left, if
// horizFlip). A run is either a single nonzero byte (one pixel of that
// value) or the triple 0x00, value, count (count >= 1 pixels of
// value, including value == 0).
func (f *Framebuffer) decodeAndBlitRow(data []byte, bodyStart, bodyEnd uint32, width int, x, destRow int, horizFlip bool, blend byte, colorKey int) error {
	sx := 0
	p := bodyStart
	for sx < width {
		if uint64(p) >= uint64(bodyEnd) {
			return errFatal("scanline ran out of run data at source column %d of %d", sx, width)
		}
		v := data[p]
		p++

		var value byte
		var count int
		if v != 0 {
			value = v
			count = 1
		} else {
			if uint64(p)+2 > uint64(bodyEnd) {
				return errFatal("truncated zero-run triple at source column %d", sx)
			}
			value = data[p]
			count = int(data[p+1])
			p += 2
			if count == 0 {
				return errFatal("zero-count run at source column %d", sx)
			}
		}

		if sx+count > width {
			return errFatal("run of %d pixels at column %d overruns scanline width %d", count, sx, width)
		}

		for i := 0; i < count; i++ {
			destCol := x + sx
			if horizFlip {
				destCol = x + (width - 1 - sx)
			}
			if colorKey == NoColorKey || int(value) != colorKey {
				f.plot(destCol, destRow, value, blend)
			}
			sx++
		}
	}
	return nil
}

// CheckIntersect reports whether two sprite boxes overlap on an 8-bit
// coordinate ring: each axis wraps mod 256, so a box near the right
// edge intersects one that has wrapped around to the left. Per axis,
// the boxes overlap iff the forward distance from A's origin to B's is
// less than A's extent, OR the forward distance from B's origin to A's
// is less than B's extent. Both axes must overlap. Boxes that only
// touch at an edge do not intersect.
func CheckIntersect(ax, ay, aw, ah, bx, by, bw, bh int) bool {
	if aw <= 0 || ah <= 0 || bw <= 0 || bh <= 0 {
		return false
	}
	dxFwd := int(uint8(bx - ax))
	dxRev := int(uint8(ax - bx))
	dyFwd := int(uint8(by - ay))
	dyRev := int(uint8(ay - by))
	return (dxFwd < aw || dxRev < bw) && (dyFwd < ah || dyRev < bh)
}

// RepeatLine implements the firmware's column/row flood primitive: the
// resource at data[offset:] must be exactly 1 pixel wide or 1 pixel
// tall. A 1-wide image is drawn as its single column at x=start, y=0,
// then each row's decoded pixel is replicated across columns
// [start, endInclusive]. A 1-tall image is handled symmetrically
// across rows. Any other shape is fatal.
func (f *Framebuffer) RepeatLine(data []byte, offset uint32, start, endInclusive int) error {
	hdr, err := ReadImageHeader(data, offset)
	if err != nil {
		return err
	}

	switch {
	case hdr.W == 1:
		if err := f.DrawImage(data, offset, uint32(len(data)), start, 0, 0, BlendNone, NoColorKey); err != nil {
			return err
		}
		for row := 0; row < hdr.H; row++ {
			if !f.inBounds(start, row) {
				continue
			}
			v := f.get(start, row)
			for col := start; col <= endInclusive; col++ {
				if f.inBounds(col, row) {
					f.set(col, row, v)
				}
			}
		}
	case hdr.H == 1:
		if err := f.DrawImage(data, offset, uint32(len(data)), 0, start, 0, BlendNone, NoColorKey); err != nil {
			return err
		}
		for col := 0; col < hdr.W; col++ {
			if !f.inBounds(col, start) {
				continue
			}
			v := f.get(col, start)
			for row := start; row <= endInclusive; row++ {
				if f.inBounds(col, row) {
					f.set(col, row, v)
				}
			}
		}
	default:
		return errFatal("repeat_line resource at 0x%06X is %dx%d, neither dimension is 1", offset, hdr.W, hdr.H)
	}
	return nil
}
