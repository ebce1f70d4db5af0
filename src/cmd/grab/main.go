package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-frame-capture/src/config"
	"screen-frame-capture/src/eventloop"
	"screen-frame-capture/src/frame"
	"screen-frame-capture/src/logutil"
	"screen-frame-capture/src/runtimeinit"
	"screen-frame-capture/src/screenshot"
)

type grabOptions struct {
	rect         string
	display      int
	listDisplays bool
	mode         string
	outputDir    string
	jsonOutput   bool
	verbose      bool
}

// capturer is the part of screenshot.Engine the command drives.
type capturer interface {
	CaptureAndSave(r screenshot.Region, toClipboard, toFile bool) screenshot.Outcome
}

// displayLister reports monitor bounds.
type displayLister struct {
	count  func() int
	bounds func(int) (screenshot.Region, error)
}

var systemDisplays = displayLister{count: screenshot.NumDisplays, bounds: screenshot.DisplayBounds}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &grabOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *grabOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grab",
		Short:         "Capture a screen rectangle or display without the frame window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.rect, "rect", "", "Region to capture as x,y,w,h in virtual-screen pixels")
	cmd.Flags().IntVar(&opts.display, "display", -1, "Capture a whole display by index")
	cmd.Flags().BoolVar(&opts.listDisplays, "list-displays", false, "List displays and exit")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Capture mode: both, clipboard or file (default from CAPTURE_MODE)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for saved captures")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.MarkFlagsMutuallyExclusive("rect", "display", "list-displays")

	return cmd
}

func runWithOptions(opts grabOptions, out io.Writer) error {
	if opts.listDisplays {
		return listDisplays(systemDisplays, opts.jsonOutput, out)
	}
	region, err := resolveRegion(opts, systemDisplays)
	if err != nil {
		return err
	}

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			OutputDirOverride: opts.outputDir,
			ModeOverride:      opts.mode,
		},
		SetupLogging: func(enableFile bool, dir string) string {
			path := logutil.Setup(enableFile, dir)
			if opts.verbose {
				log.SetOutput(os.Stderr)
			}
			return path
		},
	})
	if err != nil {
		return err
	}
	engine, err := screenshot.NewEngine(cfg.OutputDir)
	if err != nil {
		return err
	}
	return grab(engine, region, cfg.Mode, opts.jsonOutput, out)
}

// parseRect parses "x,y,w,h". Origins may be negative on multi-monitor
// layouts; sizes must be positive.
func parseRect(s string) (screenshot.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return screenshot.Region{}, fmt.Errorf("invalid rect %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return screenshot.Region{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return screenshot.Region{}, fmt.Errorf("invalid rect %q: width and height must be positive", s)
	}
	return screenshot.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

func resolveRegion(opts grabOptions, d displayLister) (screenshot.Region, error) {
	switch {
	case opts.rect != "":
		return parseRect(opts.rect)
	case opts.display >= 0:
		if n := d.count(); opts.display >= n {
			return screenshot.Region{}, fmt.Errorf("display %d out of range (%d displays)", opts.display, n)
		}
		return d.bounds(opts.display)
	default:
		return screenshot.Region{}, errors.New("one of --rect, --display or --list-displays is required")
	}
}

type displayInfo struct {
	Index  int    `json:"index"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Rect   string `json:"rect"`
}

func listDisplays(d displayLister, jsonOutput bool, out io.Writer) error {
	var infos []displayInfo
	for i := 0; i < d.count(); i++ {
		r, err := d.bounds(i)
		if err != nil {
			return err
		}
		infos = append(infos, displayInfo{
			Index: i, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
			Rect: fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height),
		})
	}
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	}
	for _, info := range infos {
		fmt.Fprintf(out, "%d\t%s\n", info.Index, info.Rect)
	}
	return nil
}

type GrabResult struct {
	Region    string  `json:"region"`
	Mode      string  `json:"mode"`
	Path      string  `json:"path,omitempty"`
	Clipboard bool    `json:"clipboard"`
	Message   string  `json:"message"`
	Error     string  `json:"error,omitempty"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
}

func grab(c capturer, region screenshot.Region, mode frame.Mode, jsonOutput bool, out io.Writer) error {
	toClipboard, toFile := mode.Sinks()
	start := time.Now()
	outcome := c.CaptureAndSave(region, toClipboard, toFile)
	elapsed := time.Since(start)

	msg, ok := eventloop.Report(mode, outcome)
	result := GrabResult{
		Region:    region.String(),
		Mode:      mode.String(),
		Path:      outcome.FilePath,
		Clipboard: outcome.ClipboardOK,
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
	}
	if outcome.Err != nil {
		result.Error = outcome.Err.Error()
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
	} else if result.Path != "" {
		fmt.Fprintln(out, result.Path)
	}

	if !ok {
		if outcome.Err == nil {
			return errors.New(msg)
		}
		return fmt.Errorf("%s: %w", msg, outcome.Err)
	}
	if outcome.Err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", msg, outcome.Err)
	}
	return nil
}
