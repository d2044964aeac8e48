package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/k0kubun/pp"

	"github.com/1broseidon/softx/internal/config"
	"github.com/1broseidon/softx/internal/host"
	"github.com/1broseidon/softx/internal/runtimepath"
)

func printRenderUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: softx render [--path PATH] [--ticks N] [--drag X0,Y0,X1,Y1] [--out FILE.png] [--windows]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run the configured session without a display for N ticks and save the")
	fmt.Fprintln(w, "composited output. --drag presses the left button at X0,Y0, moves to X1,Y1")
	fmt.Fprintln(w, "over the ticks and releases on the last one.")
}

// dragInput returns the pointer sample for tick i of n along a straight drag.
func dragInput(i, n int, from, to [2]int) host.Input {
	if n <= 1 {
		return host.Input{X: to[0], Y: to[1]}
	}
	t := float64(i) / float64(n-1)
	return host.Input{
		X:        from[0] + int(t*float64(to[0]-from[0])),
		Y:        from[1] + int(t*float64(to[1]-from[1])),
		LeftDown: i < n-1,
	}
}

func runRender(args []string) int {
	if isHelp(args) {
		printRenderUsage(os.Stdout)
		return 0
	}

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/softx/config.yaml)")
	ticks := fs.Int("ticks", 30, "Number of ticks to run")
	drag := fs.String("drag", "", "Drag gesture as X0,Y0,X1,Y1")
	out := fs.String("out", "", "Output PNG (default: timestamped file in screenshot_dir)")
	windows := fs.Bool("windows", false, "Print the final window list")
	logLevel := fs.String("log-level", "warn", "Log level")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *ticks < 1 {
		fmt.Fprintln(os.Stderr, "--ticks must be >= 1")
		return 2
	}

	var from, to [2]int
	if *drag != "" {
		if _, err := fmt.Sscanf(*drag, "%d,%d,%d,%d", &from[0], &from[1], &to[0], &to[1]); err != nil {
			fmt.Fprintf(os.Stderr, "invalid --drag %q: want X0,Y0,X1,Y1\n", *drag)
			return 2
		}
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	logger := newLogger(*logLevel)

	h := host.New(host.Options{Config: cfg, Logger: logger})
	defer h.Close()
	if _, err := h.SpawnPanels(cfg.Panels, cfg.Placement); err != nil {
		logger.Warn("some panels were not created", "error", err)
	}

	fps := cfg.Display.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	dt := time.Second / time.Duration(fps)
	for i := 0; i < *ticks; i++ {
		in := host.Input{}
		if *drag != "" {
			in = dragInput(i, *ticks, from, to)
		}
		in.DeltaTime = dt
		h.Tick(in)
	}

	target := *out
	if target == "" {
		target, err = runtimepath.ScreenshotPath(cfg.ScreenshotDir, time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if err := h.Screenshot(target); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(target)

	if *windows {
		pp.ColoringEnabled = false
		pp.Println(h.Windows())
	}
	return 0
}
