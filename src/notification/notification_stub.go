//go:build !windows

package notification

import "log"

// ShowBlockingError logs a blocking error message on non-Windows platforms.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
}

func showToast(t Toast) error {
	status := "ok"
	if !t.Success {
		status = "error"
	}
	log.Printf("Toast [%s, %dms]: %s", status, t.DurationMs, t.Text)
	return nil
}
