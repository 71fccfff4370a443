// Package desktop adapts the system clipboard and URL handler.
package desktop

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnsupported is returned when no clipboard utility is installed.
var ErrClipboardUnsupported = errors.New("clipboard is not available on this system")

// Clipboard writes to the system clipboard.
type Clipboard struct{}

func (Clipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// Opener hands URLs to the platform's default handler.
type Opener struct {
	goos  string
	start func(name string, args ...string) error
}

func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, start: startCommand}
}

func (o *Opener) Open(rawURL string) error {
	if !isValidURL(rawURL) {
		return fmt.Errorf("refusing to open %q: only http and https urls are allowed", rawURL)
	}

	switch o.goos {
	case "darwin":
		return o.start("open", rawURL)
	case "linux", "freebsd", "openbsd", "netbsd":
		return o.start("xdg-open", rawURL)
	case "windows":
		return o.start("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
