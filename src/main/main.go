package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"screen-frame-capture/src/config"
	"screen-frame-capture/src/eventloop"
	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/gui"
	"screen-frame-capture/src/hotkey"
	"screen-frame-capture/src/logutil"
	"screen-frame-capture/src/notification"
	"screen-frame-capture/src/runtimeinit"
	"screen-frame-capture/src/screenshot"
	"screen-frame-capture/src/singleinstance"
	"screen-frame-capture/src/tray"
)

const (
	appTitle       = "Screen Frame Capture"
	captureTimeout = 30 * time.Second
)

var errNoResident = errors.New("no running frame answered; start screen-frame-capture first")

type mainOptions struct {
	capture   bool
	mode      string
	outputDir string
	hotkey    string
}

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	// The frame window and its message loop live on the main thread.
	runtime.LockOSThread()

	if err := runWithArgs(normalizeLegacyArgs(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-frame-capture"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-frame-capture",
		Short:         "Keep a resizable capture frame on screen and grab what is inside it",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Quiet unless file logging is configured; stdout carries the result.
			log.SetOutput(io.Discard)
			cfg, err := config.LoadWithOptions(opts.loadOptions())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if opts.capture {
				logutil.Setup(cfg.EnableFileLogging, cfg.LogDir)
				return runCapture(cfg.Mode, singleinstance.NewClient(portRange(cfg)), os.Stdout)
			}
			return runResident(*opts, portRange(cfg))
		},
	}

	cmd.Flags().BoolVar(&opts.capture, "capture", false, "Ask the running frame to capture, print the saved path and exit")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Capture mode: both, clipboard or file")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for saved captures")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Global capture hotkey, e.g. Ctrl+Alt+F")

	return cmd
}

// normalizeLegacyArgs maps single-dash long flags (-capture) to the
// double-dash form cobra expects.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"capture", "mode", "output-dir", "hotkey"} {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}
	return normalized
}

func (o mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		OutputDirOverride: o.outputDir,
		ModeOverride:      o.mode,
		HotkeyOverride:    o.hotkey,
	}
}

func portRange(cfg *config.Config) singleinstance.PortRange {
	return singleinstance.PortRange{Start: cfg.PortStart, End: cfg.PortEnd}
}

// runCapture delegates one capture to the resident frame.
func runCapture(mode frame.Mode, client singleinstance.Client, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	delegated, path, err := client.TryCapture(ctx, mode)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if !delegated {
		return errNoResident
	}
	if path != "" {
		fmt.Fprintln(out, path)
	}
	log.Printf("Delegated capture completed (mode=%s, path=%q)", mode, path)
	return nil
}

func runResident(opts mainOptions, ports singleinstance.PortRange) error {
	if port, ok := singleinstance.NewClient(ports).Detect(context.Background()); ok {
		fmt.Printf("one is already running on port %d\n", port)
		return fmt.Errorf("frame already running")
	}
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", ports.Start))
	if err != nil {
		return fmt.Errorf("port %d busy: %w", ports.Start, err)
	}
	// We claimed the port; release it so the server can re-bind.
	_ = listener.Close()

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:        opts.loadOptions(),
		SetupLogging:       logutil.Setup,
		ShowBlockingErrors: true,
	})
	if err != nil {
		return err
	}
	log.Printf("%s starting: mode=%s output=%q hotkey=%s", appTitle, cfg.Mode, cfg.OutputDir, cfg.Hotkey)
	logDisplays()

	engine, err := screenshot.NewEngine(cfg.OutputDir)
	if err != nil {
		return err
	}

	session := frame.NewSession(frame.DefaultGeometry(primaryDisplay()), cfg.Mode)
	toaster := &notification.Toaster{}
	loop := eventloop.New(session, engine, toaster, eventloop.Options{
		Settle:   time.Duration(cfg.CaptureSettleMs) * time.Millisecond,
		NotifyMs: cfg.NotificationDuration,
		Quiet:    !cfg.ShowNotification,
	})
	defer loop.Close()
	toaster.Anchor = session.Geometry

	window, err := gui.NewWindow(loop, gui.Options{Title: appTitle, Geometry: session.Geometry()})
	if err != nil {
		notification.ShowBlockingError(appTitle, fmt.Sprintf("Could not open the capture frame: %v", err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx, window)

	srv := singleinstance.NewServer(ports)
	if err := srv.Start(ctx); err != nil {
		log.Printf("singleinstance: server not started, --capture will not reach this frame: %v", err)
	} else {
		defer srv.Close()
		go serveCaptures(ctx, srv, loop)
	}

	if err := hotkey.Listen(ctx, cfg.Hotkey, loop.RequestCapture); err != nil {
		log.Printf("Hotkey disabled: %v", err)
	}

	tray.Start(tray.Actions{
		Capture:   loop.RequestCapture,
		CycleMode: loop.RequestCycleMode,
		Quit:      loop.RequestClose,
	})
	defer tray.Stop()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			loop.RequestClose()
		case <-ctx.Done():
		}
	}()

	err = window.Run()
	log.Printf("%s exiting", appTitle)
	return err
}

// remoteCapturer is the part of the loop the resident server drives.
type remoteCapturer interface {
	CaptureRemote(ctx context.Context, m frame.Mode) (screenshot.Outcome, error)
}

func serveCaptures(ctx context.Context, srv singleinstance.Server, rc remoteCapturer) {
	for {
		conn, err := srv.Next(ctx)
		if err != nil {
			return
		}
		go func() {
			defer conn.Close()
			mode := conn.Request().Mode
			out, err := rc.CaptureRemote(ctx, mode)
			if rerr := respond(conn, mode, out, err); rerr != nil {
				log.Printf("singleinstance: failed to reply: %v", rerr)
			}
		}()
	}
}

// respond writes the capture result back to a delegating client.
func respond(conn singleinstance.Conn, mode frame.Mode, out screenshot.Outcome, err error) error {
	if err != nil {
		return conn.RespondError(err.Error())
	}
	msg, ok := eventloop.Report(mode, out)
	if !ok {
		if out.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, out.Err)
		}
		return conn.RespondError(msg)
	}
	return conn.RespondSuccess(out.FilePath)
}

func primaryDisplay() frame.Rect {
	r, err := screenshot.DisplayBounds(0)
	if err != nil {
		log.Printf("MONITOR: primary display unavailable: %v", err)
		return frame.Rect{}
	}
	return frame.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func logDisplays() {
	n := screenshot.NumDisplays()
	log.Printf("MONITOR: Detected %d displays", n)
	for i := 0; i < n; i++ {
		if r, err := screenshot.DisplayBounds(i); err == nil {
			log.Printf("MONITOR: display %d at %s", i, r)
		}
	}
	if v, err := screenshot.VirtualBounds(); err == nil {
		log.Printf("MONITOR: Virtual screen %s", v)
	}
}
