package host

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"toumapet/internal/video"
)

// SDLWindow is the concrete Window backend: an SDL2 window, an
// accelerated renderer, and a streaming texture the scaled framebuffer
// is uploaded to every frame, built the same way the teacher's plain
// (non-Fyne) internal/ui.UI wires up its SDL2 surface.
type SDLWindow struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	w, h, zoom int
	scaled     []byte // RGBA scratch buffer, zoom*w by zoom*h
}

// Open creates a centered, non-resizable window of w*zoom by h*zoom
// pixels. SDL's PIXELFORMAT_ABGR8888 always puts red in byte 0 of
// each native-endian pixel on the little-endian hosts this core
// targets, so Open reports redByteIndex 0 for BuildPalette.
func (s *SDLWindow) Open(w, h, zoom int, title string) (int, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return 0, fmt.Errorf("host: sdl init: %w", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(w*zoom), int32(h*zoom),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return 0, fmt.Errorf("host: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return 0, fmt.Errorf("host: create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w*zoom), int32(h*zoom))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return 0, fmt.Errorf("host: create texture: %w", err)
	}

	s.window, s.renderer, s.texture = window, renderer, texture
	s.w, s.h, s.zoom = w, h, zoom
	s.scaled = make([]byte, w*zoom*h*zoom*4)
	return 0, nil
}

// Blit expands the packed-index framebuffer through pal, replicates
// each source pixel into a zoom x zoom block (spec.md §4.D), and
// presents it.
func (s *SDLWindow) Blit(fb *video.Framebuffer, pal [256][4]byte) error {
	zw := s.w * s.zoom
	for y := 0; y < fb.H; y++ {
		srcRow := fb.Pix[y*fb.W : (y+1)*fb.W]
		for rep := 0; rep < s.zoom; rep++ {
			destY := y*s.zoom + rep
			destRow := s.scaled[destY*zw*4 : (destY+1)*zw*4]
			di := 0
			for x := 0; x < fb.W; x++ {
				px := pal[srcRow[x]]
				for rx := 0; rx < s.zoom; rx++ {
					copy(destRow[di:di+4], px[:])
					di += 4
				}
			}
		}
	}

	if err := s.texture.Update(nil, s.scaled, zw*4); err != nil {
		return fmt.Errorf("host: texture update: %w", err)
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return fmt.Errorf("host: render copy: %w", err)
	}
	s.renderer.Present()
	return nil
}

// PumpEvents drains SDL's event queue, translating quit and keyboard
// events into host.Event; every other SDL event type is ignored.
func (s *SDLWindow) PumpEvents() []Event {
	var out []Event
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			out = append(out, Event{Kind: EventQuit})
		case *sdl.KeyboardEvent:
			sym, ok := translateScancode(e.Keysym.Scancode)
			if !ok {
				continue
			}
			kind := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				kind = EventKeyDown
			}
			out = append(out, Event{Kind: kind, Key: sym})
		}
	}
	return out
}

// Close tears down the texture, renderer, window and SDL subsystem in
// the reverse order Open acquired them.
func (s *SDLWindow) Close() {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
}

func translateScancode(sc sdl.Scancode) (Keysym, bool) {
	switch sc {
	case sdl.SCANCODE_A:
		return KeyA, true
	case sdl.SCANCODE_S:
		return KeyS, true
	case sdl.SCANCODE_D:
		return KeyD, true
	case sdl.SCANCODE_Q:
		return KeyQ, true
	case sdl.SCANCODE_E:
		return KeyE, true
	case sdl.SCANCODE_R:
		return KeyR, true
	case sdl.SCANCODE_LEFT:
		return KeyLeft, true
	case sdl.SCANCODE_DOWN:
		return KeyDown, true
	case sdl.SCANCODE_RIGHT:
		return KeyRight, true
	case sdl.SCANCODE_DELETE:
		return KeyDelete, true
	case sdl.SCANCODE_PAGEDOWN:
		return KeyPageDown, true
	case sdl.SCANCODE_ESCAPE:
		return KeyEscape, true
	default:
		return 0, false
	}
}
