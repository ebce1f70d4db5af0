package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"screen-frame-capture/src/frame"
)

const (
	AltConfigEnvVar   = "SCREEN_FRAME_CAPTURE"
	OutputDirEnvVar   = "OUTPUT_DIR"
	CaptureModeEnvVar = "CAPTURE_MODE"
	LogDirEnvVar      = "LOG_DIR"
	DefaultHotkey     = "Ctrl+Alt+F"
	DefaultToastMs    = 2000
	DefaultSettleMs   = 150
	maxSettleMs       = 5000
	maxNotificationMs = 30000

	PortStartEnvVar  = "SINGLEINSTANCE_PORT_START"
	PortEndEnvVar    = "SINGLEINSTANCE_PORT_END"
	DefaultPortStart = 49600
	DefaultPortEnd   = 49650
)

type LoadOptions struct {
	OutputDirOverride string
	ModeOverride      string
	HotkeyOverride    string
}

type Config struct {
	OutputDir            string
	Mode                 frame.Mode
	EnableFileLogging    bool
	LogDir               string // empty means the working directory
	Hotkey               string
	ShowNotification     bool
	NotificationDuration int // milliseconds
	CaptureSettleMs      int
	// PortStart and PortEnd bound the loopback ports used to reach the
	// resident frame, inclusive.
	PortStart int
	PortEnd   int
	// EnvPath is the configuration file that was loaded, empty if none.
	EnvPath string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SCREEN_FRAME_CAPTURE env var as a path to a config file
	// Real environment variables win over file values.
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	mode, err := resolveMode(opts)
	if err != nil {
		return nil, err
	}
	portStart, portEnd := resolvePortRange()

	cfg := &Config{
		OutputDir:            resolveOutputDir(opts),
		Mode:                 mode,
		EnableFileLogging:    getEnvBool("ENABLE_FILE_LOGGING", false),
		LogDir:               strings.TrimSpace(os.Getenv(LogDirEnvVar)),
		Hotkey:               resolveHotkey(opts),
		ShowNotification:     getEnvBool("SHOW_NOTIFICATION", true),
		NotificationDuration: getEnvInt("NOTIFICATION_DURATION_MS", DefaultToastMs, 1, maxNotificationMs),
		CaptureSettleMs:      getEnvInt("CAPTURE_SETTLE_MS", DefaultSettleMs, 0, maxSettleMs),
		PortStart:            portStart,
		PortEnd:              portEnd,
		EnvPath:              envPath,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(AltConfigEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

// resolveOutputDir returns the configured capture directory. Empty means the
// working directory, resolved by the capture engine.
func resolveOutputDir(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.OutputDirOverride); override != "" {
		return override
	}
	return strings.TrimSpace(os.Getenv(OutputDirEnvVar))
}

// resolveMode rejects an unknown mode given on the command line. An unknown
// CAPTURE_MODE value is logged and falls back to capturing into both sinks.
func resolveMode(opts LoadOptions) (frame.Mode, error) {
	if override := strings.TrimSpace(opts.ModeOverride); override != "" {
		mode, err := frame.ParseMode(override)
		if err != nil {
			return 0, fmt.Errorf("invalid --mode: %w", err)
		}
		return mode, nil
	}
	value := os.Getenv(CaptureModeEnvVar)
	mode, err := frame.ParseMode(value)
	if err != nil {
		log.Printf("Config: %s=%q is not a capture mode, using %s", CaptureModeEnvVar, value, frame.ModeBoth)
		return frame.ModeBoth, nil
	}
	return mode, nil
}

// resolvePortRange reads the resident port range. Unset or malformed values
// use the defaults; the result is clamped to [1024, 65535] and ordered.
func resolvePortRange() (int, int) {
	start := getEnvInt(PortStartEnvVar, DefaultPortStart, 0, 65535)
	end := getEnvInt(PortEndEnvVar, DefaultPortEnd, 0, 65535)
	start = max(start, 1024)
	end = max(end, 1024)
	if end < start {
		start, end = end, start
	}
	return start, end
}

func resolveHotkey(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.HotkeyOverride); override != "" {
		return override
	}
	return getEnvWithDefault("HOTKEY", DefaultHotkey)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvInt parses key and falls back to defaultValue when it is missing,
// malformed or outside [lo, hi].
func getEnvInt(key string, defaultValue, lo, hi int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return defaultValue
	}
	return n
}
