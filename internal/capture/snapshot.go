// Package capture renders the /calendar page in headless Chromium and saves
// it as a PNG preview.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "creatorflow/internal/log"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 1024
	DefaultTimeout = 30 * time.Second

	// ReadySelector matches the page root once the grid is rendered.
	ReadySelector = `[data-ready="true"]`
)

// Options defines one snapshot.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar?month=2024-05".
	URL string

	// OutputPath is where the PNG is written. Parent directories are created.
	OutputPath string

	// Width and Height are the viewport in pixels.
	Width  int
	Height int

	Timeout time.Duration

	// NoSandbox disables the Chromium sandbox, needed when running as root
	// inside containers.
	NoSandbox bool
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// tasks is the capture sequence. The screenshot waits for ReadySelector.
func (o Options) tasks(png *[]byte) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.EmulateViewport(int64(o.Width), int64(o.Height)),
		chromedp.Navigate(o.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		// let the last paint settle
		chromedp.Sleep(250 * time.Millisecond),
		chromedp.FullScreenshot(png, 100),
	}
}

// Snapshot captures opts.URL and writes the PNG to opts.OutputPath. The file
// is replaced atomically so /preview.png never serves a partial image.
func Snapshot(parent context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	if err := chromedp.Run(ctx, opts.tasks(&png)); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	if err := writeFile(opts.OutputPath, png); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("snapshot saved", "path", opts.OutputPath, "bytes", len(png), "took", time.Since(start))
	return nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
