// Command toumapet is the CLI entry point: load a ROM, build the
// emulator core, open an SDL2 window, and run the frame scheduler
// until the user quits or the firmware powers off, matching the
// teacher's cmd/emulator flag-parsing style.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2/app"

	"toumapet/internal/debug"
	"toumapet/internal/emulator"
	"toumapet/internal/host"
	"toumapet/internal/inspector"
	"toumapet/internal/rom"
	"toumapet/internal/scheduler"
	"toumapet/internal/video"
)

func main() {
	romPath := flag.String("rom", "toumapet.bin", "Path to the ROM image")
	savePath := flag.String("save", "", "Path to a save file to load on start and write on quit")
	zoom := flag.Int("zoom", 3, "Display zoom factor (1-5)")
	updateTime := flag.Bool("update-time", false, "Seed the firmware's clock from the host's wall-clock time at cold start")
	enableLog := flag.Bool("log", false, "Enable structured logging to stderr-visible in-memory history")
	inspect := flag.Bool("inspect", false, "Open the Fyne debug inspector alongside the emulator window")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unrecognized arguments: %v\n", flag.Args())
		os.Exit(1)
	}
	if *zoom < 1 || *zoom > 5 {
		fmt.Fprintf(os.Stderr, "Error: -zoom must be between 1 and 5\n")
		os.Exit(1)
	}

	if err := run(*romPath, *savePath, *zoom, *updateTime, *enableLog, *inspect); err != nil {
		fmt.Fprintf(os.Stderr, "toumapet: %v\n", err)
		os.Exit(1)
	}
}

func run(romPath, savePath string, zoom int, updateTime, enableLog, inspect bool) error {
	var logger *debug.Logger
	if enableLog {
		logger = debug.NewLogger(10000)
		for _, c := range []debug.Component{
			debug.ComponentCPU, debug.ComponentROM, debug.ComponentFlash,
			debug.ComponentBIOS, debug.ComponentVideo, debug.ComponentScheduler,
			debug.ComponentInput, debug.ComponentSystem,
		} {
			logger.SetComponentEnabled(c, true)
		}
	}

	romData, err := rom.Load(romPath, emulator.ROMSize560)
	if err != nil {
		return err
	}
	r, err := rom.New(romData, logger)
	if err != nil {
		return err
	}

	height, err := emulator.ScreenHeightForROM(len(r.Data))
	if err != nil {
		return err
	}
	fb := video.NewFramebuffer(height)

	model := host.Model550
	if height == emulator.ScreenHeight560 {
		model = host.Model560
	}

	emu := emulator.New(r, fb, logger)

	if savePath != "" {
		if data, err := os.ReadFile(savePath); err == nil {
			if err := emu.Load(data); err != nil {
				return fmt.Errorf("loading save file %q: %w", savePath, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("reading save file %q: %w", savePath, err)
		}
	}

	window := &host.SDLWindow{}
	sched := scheduler.New(emu, window, model, zoom, logger)
	if err := sched.Open("toumapet"); err != nil {
		return err
	}
	defer window.Close()

	if err := sched.ColdStart(updateTime); err != nil {
		return err
	}

	runLoop := func() error {
		for {
			done, stepErr := sched.Step()
			if stepErr != nil {
				return stepErr
			}
			if done {
				return nil
			}
		}
	}

	var loopErr error
	if inspect {
		loopErr = runWithInspector(emu, logger, runLoop)
	} else {
		loopErr = runLoop()
	}
	if loopErr != nil {
		return loopErr
	}

	if savePath != "" {
		if err := os.WriteFile(savePath, emu.Save(), 0o644); err != nil {
			return fmt.Errorf("writing save file %q: %w", savePath, err)
		}
	}
	return nil
}

// runWithInspector opens the Fyne inspector window on the calling
// (main) goroutine, as Fyne requires, while the SDL scheduler loop
// (runLoop) drives the emulator from a background goroutine — the
// same split the teacher's hybrid Fyne+SDL UI uses to keep SDL's
// render thread and Fyne's event loop from fighting over the main
// thread.
func runWithInspector(emu *emulator.Emulator, logger *debug.Logger, runLoop func() error) error {
	insp := inspector.New(emu, logger)

	fyneApp := app.NewWithID("toumapet.inspector")
	window := fyneApp.NewWindow("toumapet inspector")
	content := insp.Container(inspector.DefaultScreenshotPath)
	window.SetContent(content)
	window.Resize(content.MinSize())

	ticker := time.NewTicker(200 * time.Millisecond)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				insp.Update()
			case <-stop:
				return
			}
		}
	}()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- runLoop()
		fyneApp.Quit()
	}()

	window.ShowAndRun()
	ticker.Stop()
	close(stop)

	return <-loopDone
}
