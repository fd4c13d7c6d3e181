// Package inspector is the optional Fyne-based dev overlay SPEC_FULL.md
// adds on top of spec.md: a register/flag viewer, flash FSM and
// ROM-call frame-stack depth, the last log lines, and a screenshot
// dump button, all built the way the teacher's internal/ui/panels
// build their Fyne register and log viewers.
package inspector

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"

	"toumapet/internal/debug"
	"toumapet/internal/emulator"
)

// screenshotScale upscales the native panel resolution before PNG
// encode, the same way a pixel-exact LCD dump gets blown up for
// readability on a modern display rather than saved at its native
// handful-of-pixels-per-inch size.
const screenshotScale = 4

// Inspector owns the Fyne widgets and the update function the caller
// (cmd/toumapet) ticks every 200 ms, alongside the SDL presentation
// window.
type Inspector struct {
	emu    *emulator.Emulator
	logger *debug.Logger

	stateText *widget.Entry
	logText   *widget.Entry
}

// New builds the inspector's widget tree, unattached to any window
// until the caller places Container in one.
func New(emu *emulator.Emulator, logger *debug.Logger) *Inspector {
	stateText := widget.NewMultiLineEntry()
	stateText.Wrapping = fyne.TextWrapOff
	stateText.Disable()

	logText := widget.NewMultiLineEntry()
	logText.Wrapping = fyne.TextWrapOff
	logText.Disable()

	return &Inspector{emu: emu, logger: logger, stateText: stateText, logText: logText}
}

// Container assembles the inspector's panels into one scrollable
// layout: register/flash/frame-stack state on top, the tail of the
// log beneath it, and a screenshot button.
func (i *Inspector) Container(screenshotPath func() string) *fyne.Container {
	stateScroll := container.NewScroll(i.stateText)
	stateScroll.SetMinSize(fyne.NewSize(360, 220))

	logScroll := container.NewScroll(i.logText)
	logScroll.SetMinSize(fyne.NewSize(360, 300))

	shotBtn := widget.NewButton("Save Screenshot", func() {
		path := screenshotPath()
		if err := i.SaveScreenshot(path); err != nil {
			i.logText.SetText(i.logText.Text + fmt.Sprintf("\nscreenshot failed: %v", err))
		} else {
			i.logText.SetText(i.logText.Text + fmt.Sprintf("\nscreenshot written to %s", path))
		}
	})

	return container.NewVBox(
		widget.NewLabel("State"),
		stateScroll,
		shotBtn,
		widget.NewLabel("Log (last 200)"),
		logScroll,
	)
}

// Update refreshes both text panels; the caller ticks this every
// 200 ms, independently of the SDL window's Blit.
func (i *Inspector) Update() {
	i.stateText.SetText(i.formatState())
	i.logText.SetText(i.formatLog())
}

func (i *Inspector) formatState() string {
	c := i.emu.CPU
	text := "=== CPU ===\n"
	text += fmt.Sprintf("PC=%04X A=%02X X=%02X Y=%02X SP=%02X\n", c.PC, c.A, c.X, c.Y, c.SP)
	text += fmt.Sprintf("Flags Z=%v N=%v V=%v C=%v I=%v D=%v\n", c.Z, c.N, c.V, c.C, c.I, c.D)
	text += fmt.Sprintf("Waiting=%v Stopped=%v Cycles=%d\n", c.Waiting, c.Stopped, c.Cycles)

	text += "\n=== Flash ===\n"
	text += fmt.Sprintf("state=%s\n", i.emu.Flash.State())

	text += "\n=== ROM-call frames ===\n"
	text += fmt.Sprintf("depth=%d\n", i.emu.Tramp.Depth())

	text += "\n=== Power ===\n"
	text += fmt.Sprintf("off=%v\n", i.emu.Bus.PowerOff)

	return text
}

func (i *Inspector) formatLog() string {
	entries := i.logger.GetRecentEntries(200)
	text := ""
	for _, e := range entries {
		text += e.Format() + "\n"
	}
	return text
}

// SaveScreenshot renders the current framebuffer through black/white
// the same way debug overlays commonly dump raw video state: no
// palette context is assumed available here, so pixel values are
// written as 8-bit grayscale indices rather than through the live
// palette. The native image is only a handful of pixels tall, so it
// is scaled up with x/image/draw's bilinear sampler before encoding —
// a nearest-neighbor blit would just tile blocky squares, which isn't
// worth a screenshot button.
func (i *Inspector) SaveScreenshot(path string) error {
	fb := i.emu.FB
	native := image.NewGray(image.Rect(0, 0, fb.W, fb.H))
	copy(native.Pix, fb.Pix)

	scaled := image.NewGray(image.Rect(0, 0, fb.W*screenshotScale, fb.H*screenshotScale))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), native, native.Bounds(), draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("inspector: creating screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, scaled); err != nil {
		return fmt.Errorf("inspector: encoding screenshot: %w", err)
	}
	return nil
}

// DefaultScreenshotPath names a screenshot file the way the teacher's
// register-dump button does: a timestamped name in the working
// directory.
func DefaultScreenshotPath() string {
	return fmt.Sprintf("toumapet_%s.png", time.Now().Format("20060102_150405"))
}
