package sites

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a URL to the user. Nothing waits on the result.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener hands the URL to the platform's default handler.
type BrowserOpener struct {
	GOOS string // defaults to runtime.GOOS
}

// Open starts the handler and returns without waiting for it to exit.
func (b BrowserOpener) Open(url string) error {
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args := browserCommand(goos, url)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	// reap the child in the background
	go func() { _ = cmd.Wait() }()
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	}
	return "xdg-open", []string{url}
}
