// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a URL for the user.
type Opener interface {
	Open(url string) error
}

// starter abstracts process start for testing.
type starter func(name string, args ...string) error

// startDetached starts the command and reaps it in the background.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// browser opens URLs with the platform's default handler.
type browser struct {
	goos  string
	start starter
}

// SystemBrowser returns the Opener for the running platform.
func SystemBrowser() Opener {
	return &browser{goos: runtime.GOOS, start: startDetached}
}

func (b *browser) Open(url string) error {
	name, args := browserCommand(b.goos, url)
	if err := b.start(name, args...); err != nil {
		return fmt.Errorf("opening %s with %s: %w", url, name, err)
	}
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
