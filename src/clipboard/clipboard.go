package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu sync.Mutex
	ready   bool
	initErr error
	once    sync.Once
)

// ErrUnavailable is returned when the system clipboard could not be
// initialised (no display, missing cgo support).
var ErrUnavailable = errors.New("clipboard unavailable")

// Init initialises the system clipboard. It is safe to call more than once;
// only the first call does any work.
func Init() error {
	once.Do(func() {
		initErr = clipboard.Init()
		writeMu.Lock()
		ready = initErr == nil
		writeMu.Unlock()
	})
	return initErr
}

// WriteImage places PNG-encoded image data on the clipboard. The platform
// layer decodes it into the native bitmap format.
func WriteImage(png []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if !ready {
		return ErrUnavailable
	}
	if len(png) == 0 {
		return errors.New("empty image data")
	}
	if changed := clipboard.Write(clipboard.FmtImage, png); changed == nil {
		return errors.New("clipboard rejected image data")
	}
	return nil
}

// System is the process clipboard as a capture sink.
type System struct{}

func (System) WriteImage(png []byte) error { return WriteImage(png) }
