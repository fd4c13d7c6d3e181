package video

import "testing"

func encodeRow(pixels []byte) []byte {
	var body []byte
	i := 0
	for i < len(pixels) {
		v := pixels[i]
		run := 1
		for i+run < len(pixels) && pixels[i+run] == v && run < 255 {
			run++
		}
		if run == 1 && v != 0 {
			body = append(body, v)
		} else {
			body = append(body, 0x00, v, byte(run))
		}
		i += run
	}
	rowLen := len(body) + 4
	row := []byte{byte(rowLen), byte(rowLen >> 8)}
	row = append(row, body...)
	row = append(row, 0, 0) // trailing bytes
	return row
}

func buildImage(w, h int, rows [][]byte) []byte {
	data := []byte{byte(w), 0x00, byte(h), 0x80}
	for _, r := range rows {
		data = append(data, encodeRow(r)...)
	}
	return data
}

func TestDrawImageBasic(t *testing.T) {
	img := buildImage(2, 2, [][]byte{
		{0x1F, 0x1F},
		{0x00, 0x03},
	})
	fb := NewFramebuffer(4)
	if err := fb.DrawImage(img, 0, uint32(len(img)), 1, 1, 0, BlendNone, NoColorKey); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	if got := fb.get(1, 1); got != 0x1F {
		t.Errorf("(1,1) = %#x, want 0x1F", got)
	}
	if got := fb.get(2, 1); got != 0x1F {
		t.Errorf("(2,1) = %#x, want 0x1F", got)
	}
	if got := fb.get(1, 2); got != 0x00 {
		t.Errorf("(1,2) = %#x, want 0x00", got)
	}
	if got := fb.get(2, 2); got != 0x03 {
		t.Errorf("(2,2) = %#x, want 0x03", got)
	}
}

func TestDrawImageColorKeySkipsMatchingPixels(t *testing.T) {
	img := buildImage(2, 1, [][]byte{{0x00, 0x07}})
	fb := NewFramebuffer(4)
	fb.Clear(0, 3, 0xAA)
	if err := fb.DrawImage(img, 0, uint32(len(img)), 0, 0, 0, BlendNone, 0x00); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	if got := fb.get(0, 0); got != 0xAA {
		t.Errorf("color-keyed pixel (0,0) = %#x, want unchanged 0xAA", got)
	}
	if got := fb.get(1, 0); got != 0x07 {
		t.Errorf("(1,0) = %#x, want 0x07", got)
	}
}

func TestDrawImageHorizontalFlip(t *testing.T) {
	img := buildImage(3, 1, [][]byte{{0x01, 0x02, 0x03}})
	fb := NewFramebuffer(4)
	if err := fb.DrawImage(img, 0, uint32(len(img)), 0, 0, FlipHorizontal, BlendNone, NoColorKey); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	want := []byte{0x03, 0x02, 0x01}
	for i, w := range want {
		if got := fb.get(i, 0); got != w {
			t.Errorf("(%d,0) = %#x, want %#x", i, got, w)
		}
	}
}

func TestDrawImageScanlineOverrunIsFatal(t *testing.T) {
	img := buildImage(2, 1, [][]byte{{0x01, 0x02}})
	// Corrupt the declared row length to claim more bytes than exist.
	img[4] = 0xFF
	fb := NewFramebuffer(4)
	if err := fb.DrawImage(img, 0, uint32(len(img)), 0, 0, 0, BlendNone, NoColorKey); err == nil {
		t.Fatal("expected fatal error for scanline overrunning resource end")
	}
}

func TestDrawImageZeroCountRunIsFatal(t *testing.T) {
	// Header + one scanline whose body is the explicit triple
	// 0x00, 0x05, 0x00 — a run of value 0x05 repeated zero times.
	body := []byte{0x00, 0x05, 0x00}
	rowLen := len(body) + 4
	img := []byte{5, 0x00, 1, 0x80}
	img = append(img, byte(rowLen), byte(rowLen>>8))
	img = append(img, body...)
	img = append(img, 0, 0)

	if err := (NewFramebuffer(4)).DrawImage(img, 0, uint32(len(img)), 0, 0, 0, BlendNone, NoColorKey); err == nil {
		t.Fatal("expected fatal error for zero-count run")
	}
}

func TestCheckIntersectAsymmetricEdges(t *testing.T) {
	// Two 4x4 boxes sharing an edge: [0,4) and [4,8) do not overlap.
	if CheckIntersect(0, 0, 4, 4, 4, 0, 4, 4) {
		t.Error("edge-touching boxes reported as intersecting")
	}
	if !CheckIntersect(0, 0, 4, 4, 3, 0, 4, 4) {
		t.Error("overlapping boxes reported as not intersecting")
	}
}

func TestRepeatLineFloodsColumnsFromOneTallImage(t *testing.T) {
	img := buildImage(3, 1, [][]byte{{0x01, 0x02, 0x03}})
	fb := NewFramebuffer(4)
	if err := fb.RepeatLine(img, 0, 0, 3); err != nil {
		t.Fatalf("RepeatLine: %v", err)
	}
	for row := 0; row <= 3; row++ {
		for col := 0; col < 3; col++ {
			want := byte(col + 1)
			if got := fb.get(col, row); got != want {
				t.Errorf("row %d col %d = %#x, want %#x", row, col, got, want)
			}
		}
	}
}

func TestRepeatLineFloodsRowsFromOneWideImage(t *testing.T) {
	img := buildImage(1, 2, [][]byte{{0x05}, {0x06}})
	fb := NewFramebuffer(6)
	if err := fb.RepeatLine(img, 0, 2, 4); err != nil {
		t.Fatalf("RepeatLine: %v", err)
	}
	if got := fb.get(2, 0); got != 0x05 {
		t.Errorf("(2,0) = %#x, want 0x05", got)
	}
	for col := 2; col <= 4; col++ {
		if got := fb.get(col, 1); got != 0x06 {
			t.Errorf("(%d,1) = %#x, want 0x06", col, got)
		}
	}
}

func TestRepeatLineNeitherDimensionOneIsFatal(t *testing.T) {
	img := buildImage(2, 2, [][]byte{{0x01, 0x02}, {0x03, 0x04}})
	fb := NewFramebuffer(4)
	if err := fb.RepeatLine(img, 0, 0, 3); err == nil {
		t.Fatal("expected fatal error for a 2x2 repeat_line resource")
	}
}

func TestCheckIntersectWrapsOnThe8BitRing(t *testing.T) {
	if !CheckIntersect(250, 0, 8, 8, 1, 0, 8, 8) {
		t.Error("boxes that overlap after wrapping past 255 should intersect")
	}
	if CheckIntersect(0, 0, 4, 4, 4+256, 0, 4, 4) {
		t.Error("ring wraparound should not make an edge-touching box intersect")
	}
}

func TestBuildPaletteLowHalfOrder(t *testing.T) {
	pal := BuildPalette(0)
	px := pal[0xFF] // max R, G, B
	if px[0] != 0xFF {
		t.Errorf("red byte = %#x, want 0xFF", px[0])
	}
	if px[3] != 0xFF {
		t.Errorf("alpha byte = %#x, want 0xFF", px[3])
	}
}

func TestBlendPixel(t *testing.T) {
	if got := blendPixel(0xFF, 0x00); got == 0xFF {
		t.Errorf("blend of max and zero should not equal max unblended, got %#x", got)
	}
}
