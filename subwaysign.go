// This file is part of Subwaysign.
//
// Subwaysign is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Subwaysign is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Subwaysign.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/subwaysign/subwaysign/feed"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/lifecycle"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/modalflag"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/panel/recorder"
	"github.com/subwaysign/subwaysign/panel/sdlpanel"
	"github.com/subwaysign/subwaysign/panel/termpanel"
	"github.com/subwaysign/subwaysign/paths"
	"github.com/subwaysign/subwaysign/performance"
	"github.com/subwaysign/subwaysign/prefs"
	"github.com/subwaysign/subwaysign/preview"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/signconfig"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/statsview"
	"github.com/subwaysign/subwaysign/status"
	"github.com/subwaysign/subwaysign/transit"
	"github.com/subwaysign/subwaysign/version"
)

// exit values
const (
	exitSuccess  = 0
	exitArgs     = 10
	exitModeFail = 20
)

// the name of the sign configuration file in the resource directory
const defaultConfigFile = "sign.yaml"

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch parses the command line and runs the selected mode. Returns the
// value to use with os.Exit().
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "PREVIEW", "FONTS", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitSuccess

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitArgs
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, output)

	case "PREVIEW":
		err = previewMode(md, output)

	case "FONTS":
		err = fonts(md, output)

	case "PERFORMANCE":
		err = perform(md, output)

	case "VERSION":
		err = showVersion(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitModeFail
	}

	return exitSuccess
}

// setupLogging echoes the central log to stderr. Colour is used if stderr is
// a terminal.
func setupLogging(echo bool) {
	if !echo {
		logger.SetEcho(nil, false)
		return
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		logger.SetEcho(logger.NewColorizer(os.Stderr), true)
	} else {
		logger.SetEcho(os.Stderr, true)
	}
}

// fontLoader returns a render.FontLoader for the font file. The built-in font
// is used if the filename is empty.
func fontLoader(filename string) render.FontLoader {
	if filename == "" {
		return glyphs.LoadDefault
	}
	return func() (*glyphs.Store, error) {
		return glyphs.LoadFile(filename)
	}
}

// feedSource returns the mock feed if the feed argument is "mock" or the
// empty string. Otherwise the argument is the base URL of a feed service.
func feedSource(arg string, scenario string, seed int) (feed.Source, error) {
	if arg == "" || strings.EqualFold(arg, "mock") {
		if _, ok := feed.Scenarios[scenario]; !ok {
			return nil, fmt.Errorf("unknown mock scenario %q", scenario)
		}
		if seed == 0 {
			seed = int(time.Now().UnixNano())
		}
		return feed.NewMock(scenario, uint64(seed)), nil
	}
	h, err := feed.NewHTTP(arg, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// notifier forwards notices to the status server if there is one.
func notifier(srv *status.Server) notifications.Notify {
	return notifications.NotifyFunc(func(notice notifications.Notice) error {
		if srv == nil {
			return nil
		}
		return srv.Notify(notice)
	})
}

// newPanel creates the panel named by kind. The onQuit function is called if
// the panel is closed by the user.
func newPanel(kind string, ep *enginePrefs, recording string, onQuit func()) (panel.Panel, error) {
	switch strings.ToLower(kind) {
	case panelNull:
		return panel.Null{}, nil

	case panelTerm:
		return termpanel.New(os.Stdout), nil

	case panelSDL:
		if !sdlpanel.Available() {
			return nil, fmt.Errorf("sdl panel not available in this build")
		}
		return sdlpanel.New(ep.sdlScale.Get().(int), onQuit)

	case panelRecord:
		if recording == "" {
			recording = paths.UniqueFilename("subwaysign", ".ssr")
		}
		f, err := os.Create(recording)
		if err != nil {
			return nil, err
		}
		logger.Logf(logger.Allow, "panel", "recording to %s", recording)
		return recorder.NewRecorder(panel.Null{}, f, 1), nil
	}

	return nil, fmt.Errorf("unknown panel kind %q", kind)
}

func run(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	defConfig := paths.ResourcePath(defaultConfigFile)

	configFile := md.AddString("config", defConfig, "sign configuration file (yaml, toml or json)")
	fontFile := md.AddString("font", "", "font file. the built-in font is used if not set")
	feedArg := md.AddString("feed", "mock", "feed service base URL or \"mock\"")
	scenario := md.AddString("scenario", "normal", "mock feed scenario")
	seed := md.AddInt("seed", 0, "mock feed random seed. zero uses the current time")
	panelKind := md.AddString("panel", "", "panel to drive: null, term, sdl, record. overrides panel.kind")
	record := md.AddString("record", "", "record frames to file as well as driving the panel")
	noStatus := md.AddBool("nostatus", false, "do not start the status server")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	profile := md.AddString("profile", "none", "run through profiler: cpu, mem, trace, all (comma separated)")
	log := md.AddBool("log", false, "echo debugging log to stderr")
	prefsOverride := md.AddString("prefs", "", "preferences overrides: \"key::value; key::value\"")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	setupLogging(*log)

	if *prefsOverride != "" {
		prefs.PushCommandLineStack(*prefsOverride)
	}
	ep, err := newEnginePrefs()
	if err != nil {
		return err
	}
	if *prefsOverride != "" {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "prefs", "unused overrides: %s", unused)
		}
	}

	prof, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	cfg, err := signconfig.Load(*configFile)
	if err != nil {
		return err
	}
	logger.Logf(logger.Allow, "config", "loaded %s: %s", *configFile, cfg)

	src, err := feedSource(*feedArg, *scenario, *seed)
	if err != nil {
		return err
	}

	configCell := statecell.New(cfg)
	displayCell := statecell.New(&transit.DisplaySnapshot{})

	lc := lifecycle.New(context.Background())
	lc.NotifySignals()

	kind := ep.panelKind.String()
	if *panelKind != "" {
		kind = *panelKind
	}
	pnl, err := newPanel(kind, ep, *record, func() { lc.Shutdown("panel closed") })
	if err != nil {
		return err
	}
	if *record != "" && !strings.EqualFold(kind, panelRecord) {
		f, err := os.Create(*record)
		if err != nil {
			return err
		}
		pnl = recorder.NewRecorder(pnl, f, 1)
	}

	addr := ep.statusAddress.String()
	var tap *panel.Tap
	if !*noStatus && addr != "" {
		tap = panel.NewTap(pnl, ep.tapEvery.Get().(int))
		pnl = tap
	}

	rc := ep.renderConfig()
	rc.Geometry = cfg.Geometry
	loop := render.NewLoop(rc, fontLoader(*fontFile), pnl, configCell, displayCell)

	var srv *status.Server
	if tap != nil {
		srv = status.NewServer(addr, status.Sources{
			Loop:       loop,
			Config:     configCell,
			Display:    displayCell,
			Frames:     tap.Frames(),
			ConfigPath: *configFile,
		})
	}

	notify := notifier(srv)
	lc.SetNotify(notify)
	loop.SetNotify(notify)

	poller := feed.NewPoller(src, configCell, displayCell)
	poller.SetNotify(notify)

	watcher := signconfig.NewWatcher(*configFile, configCell)
	watcher.SetNotify(notify)

	return performance.RunProfiler(prof, "subwaysign", func() error {
		// the loop is started first. a failure to start is reported before
		// anything else runs
		if err := loop.Start(lc.Context()); err != nil {
			lc.Shutdown("render loop failed to start")
			return err
		}
		lc.Attach(loop)

		lc.Go("feed", poller.Run)
		lc.Go("config", watcher.Run)
		if srv != nil {
			lc.Go("status", srv.Serve)
		}
		if *stats {
			if err := statsview.Launch(lc.Context()); err != nil {
				logger.Log(logger.Allow, "statsview", err)
			} else {
				fmt.Fprintf(output, "! stats server running at %s\n", statsview.Address)
			}
		}

		err := lc.Wait()
		logger.Logf(logger.Allow, "lifecycle", "stopped: %s", lc.Reason())
		if published, failures := poller.Published(); published+failures > 0 {
			logger.Logf(logger.Allow, "feed", "%d snapshots published, %d failed fetches", published, failures)
		}
		return err
	})
}

func previewMode(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	defConfig := paths.ResourcePath(defaultConfigFile)

	configFile := md.AddString("config", defConfig, "sign configuration file")
	fontFile := md.AddString("font", "", "font file. the built-in font is used if not set")
	scenario := md.AddString("scenario", "normal", "mock feed scenario")
	seed := md.AddInt("seed", 1, "mock feed random seed")
	after := md.AddDuration("after", 0, "simulated time to run before showing the frame")
	pngFile := md.AddString("png", "", "write the frame to a PNG file instead of the terminal")
	scale := md.AddInt("scale", 4, "PNG pixel scaling")
	replay := md.AddString("replay", "", "replay a frame recording to the terminal")
	ascii := md.AddBool("ascii", false, "draw with ASCII characters rather than colour")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setupLogging(*log)

	tp := termpanel.New(output)
	if *ascii {
		tp.SetProfile(termenv.Ascii)
	}

	if *replay != "" {
		return replayRecording(*replay, tp)
	}

	cfg, err := signconfig.Load(*configFile)
	if err != nil {
		return err
	}

	str, err := fontLoader(*fontFile)()
	if err != nil {
		return err
	}

	// one fetch from the mock feed
	mock := feed.NewMock(*scenario, uint64(*seed))
	arrivals, err := mock.Arrivals(context.Background(), cfg)
	if err != nil {
		return err
	}
	var alerts []transit.Alert
	if cfg.ShowAlerts {
		alerts, err = mock.Alerts(context.Background(), cfg)
		if err != nil {
			return err
		}
	}
	disp := &transit.DisplaySnapshot{
		Arrivals:  arrivals,
		Alerts:    alerts,
		FetchedAt: time.Now(),
	}

	em, err := preview.NewEmulation(str, cfg, disp, render.DefaultFPS)
	if err != nil {
		return err
	}
	em.Run(*after)
	res := em.Results()

	if *pngFile != "" {
		f, err := os.Create(*pngFile)
		if err != nil {
			return err
		}
		if err := preview.WritePNG(f, res.Frame, *scale); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(output, "! frame written to %s (digest %s)\n", *pngFile, res.Digest)
		return nil
	}

	if err := tp.Open(cfg.Geometry); err != nil {
		return err
	}
	tp.SetBrightness(cfg.BrightnessPercent())
	if err := tp.Present(res.Frame); err != nil {
		_ = tp.Close()
		return err
	}
	if err := tp.Close(); err != nil {
		return err
	}
	fmt.Fprintf(output, "%d ticks (%s). %d arrivals, %d alerts. alert active: %v\n",
		res.Ticks, res.Elapsed, len(arrivals), len(alerts), res.AlertActive)
	fmt.Fprintf(output, "digest: %s\n", res.Digest)

	return nil
}

// replayRecording plays the recording to the panel until it ends or the
// program is interrupted.
func replayRecording(filename string, pnl panel.Panel) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	player, err := recorder.NewPlayer(f)
	if err != nil {
		return err
	}
	defer player.Close()

	// the recording does not record the chain layout. a single panel of the
	// full size is equivalent
	g := transit.Geometry{ChainLength: 1, PanelWidth: player.Width(), PanelHeight: player.Height()}
	if err := pnl.Open(g); err != nil {
		return err
	}

	lc := lifecycle.New(context.Background())
	lc.NotifySignals()
	defer lc.Shutdown("replay finished")

	err = player.Play(pnl, lc.Done())
	if cerr := pnl.Close(); err == nil {
		err = cerr
	}
	return err
}

func fonts(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	fontFile := md.AddString("font", "", "font file. the built-in font is used if not set")
	measure := md.AddString("measure", "", "show the width of the text in each style")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	str, err := fontLoader(*fontFile)()
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "font: %s\n", str.Name())
	fmt.Fprintf(output, "height: %d, spacing: %d\n", str.Height(), str.Spacing())

	chars := str.Chars()
	fmt.Fprintf(output, "characters (%d): %s\n", len(chars), string(chars))

	icons := str.Icons()
	fmt.Fprintf(output, "icons (%d): %s\n", len(icons), strings.Join(icons, " "))

	if *measure != "" {
		for _, style := range []glyphs.Style{glyphs.Regular, glyphs.Italic} {
			fmt.Fprintf(output, "%s: %d pixels\n", style, str.Measure(*measure, style, str.Spacing()))
		}
	}

	return nil
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	fps := md.AddInt("fps", render.DefaultFPS, "target tick rate")
	duration := md.AddDuration("duration", 5*time.Second, "run duration (not including a two second lead time)")
	scenario := md.AddString("scenario", "rush_hour", "mock feed scenario")
	profile := md.AddString("profile", "none", "run through profiler: cpu, mem, trace, all (comma separated)")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	setupLogging(*log)

	prof, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	return performance.Check(output, performance.CheckConfig{
		FPS:      *fps,
		Scenario: *scenario,
		Profile:  prof,
	}, *duration)
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	if *revision {
		fmt.Fprintf(output, "%s %s\n", v, r)
	} else {
		fmt.Fprintln(output, v)
	}

	return nil
}
