package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"screen-frame-capture/src/clipboard"
)

// Sink errors. Outcome.Err wraps one or more of these.
var (
	ErrGrab      = errors.New("screen grab failed")
	ErrClipboard = errors.New("clipboard write failed")
	ErrFile      = errors.New("file save failed")
)

// FileTimeLayout formats the timestamp part of saved file names.
const FileTimeLayout = "20060102_150405"

// Grabber reads a screen rectangle.
type Grabber func(Region) (*image.RGBA, error)

// Clipboard receives PNG-encoded images.
type Clipboard interface {
	WriteImage(png []byte) error
}

// Outcome reports what a capture delivered. FilePath is empty when no file
// was written. Err aggregates every sink failure and is nil on full success.
type Outcome struct {
	FilePath    string
	ClipboardOK bool
	Err         error
}

// Saved reports whether a file was written.
func (o Outcome) Saved() bool { return o.FilePath != "" }

// Engine grabs screen regions and delivers them to the clipboard and/or a
// PNG file in its output directory.
type Engine struct {
	outputDir string
	grab      Grabber
	clip      Clipboard
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithGrabber replaces the screen grabber.
func WithGrabber(g Grabber) Option { return func(e *Engine) { e.grab = g } }

// WithClipboard replaces the clipboard sink.
func WithClipboard(c Clipboard) Option { return func(e *Engine) { e.clip = c } }

// WithClock replaces the clock used for file names.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine creates an engine saving into outputDir. An empty outputDir
// means the working directory at construction time.
func NewEngine(outputDir string, opts ...Option) (*Engine, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		outputDir = wd
	}
	e := &Engine{
		outputDir: outputDir,
		grab:      grabScreen,
		clip:      clipboard.System{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// OutputDir is the directory saved captures go to.
func (e *Engine) OutputDir() string { return e.outputDir }

// Grab reads the pixels of r. There is no retry.
func (e *Engine) Grab(r Region) (*Image, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid region dimensions: width=%d, height=%d", ErrGrab, r.Width, r.Height)
	}
	rgba, err := e.grab(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrab, err)
	}
	if rgba == nil {
		return nil, fmt.Errorf("%w: grabber returned no image", ErrGrab)
	}
	return FromRGBA(rgba), nil
}

// CopyToClipboard encodes img as PNG and hands it to the clipboard.
func (e *Engine) CopyToClipboard(img *Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrClipboard, err)
	}
	if err := e.clip.WriteImage(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboard, err)
	}
	return nil
}

// SaveCapture writes img to capture_YYYYMMDD_HHMMSS.png in the output
// directory and returns the absolute path. A partially written file is
// removed on failure.
func (e *Engine) SaveCapture(img *Image) (string, error) {
	name := "capture_" + e.now().Format(FileTimeLayout) + ".png"
	path, err := filepath.Abs(filepath.Join(e.outputDir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFile, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFile, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: encode %s: %v", ErrFile, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: close %s: %v", ErrFile, path, err)
	}
	return path, nil
}

// Deliver sends img to the requested sinks, clipboard first. Each sink is
// attempted independently; one failing does not stop the other.
func (e *Engine) Deliver(img *Image, toClipboard, toFile bool) Outcome {
	var out Outcome
	var errs *multierror.Error

	if toClipboard {
		if err := e.CopyToClipboard(img); err != nil {
			log.Printf("Capture: clipboard sink failed: %v", err)
			errs = multierror.Append(errs, err)
		} else {
			out.ClipboardOK = true
		}
	}
	if toFile {
		path, err := e.SaveCapture(img)
		if err != nil {
			log.Printf("Capture: file sink failed: %v", err)
			errs = multierror.Append(errs, err)
		} else {
			out.FilePath = path
		}
	}

	out.Err = errs.ErrorOrNil()
	return out
}

// CaptureAndSave grabs r and delivers it. A grab failure attempts no sink.
func (e *Engine) CaptureAndSave(r Region, toClipboard, toFile bool) Outcome {
	img, err := e.Grab(r)
	if err != nil {
		log.Printf("Capture: grab %s failed: %v", r, err)
		return Outcome{Err: err}
	}
	log.Printf("Capture: grabbed %s (clipboard=%v file=%v)", r, toClipboard, toFile)
	return e.Deliver(img, toClipboard, toFile)
}
