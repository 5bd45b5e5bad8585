// Package notify delivers best-effort user notifications.
//
// A Notifier asks its Capability for permission exactly once, when it is
// built. If the capability is missing or permission was not granted every
// Notify call is a silent no-op.
package notify

import (
	"fmt"
	"os"
	"runtime"

	"github.com/gen2brain/beeep"

	appLog "creatorflow/internal/log"
)

// Permission mirrors the browser Notification.permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Capability is a notification sink.
type Capability interface {
	Available() bool
	RequestPermission() Permission
	Send(title, body string) error
}

// Notifier gates a Capability behind availability and permission.
type Notifier struct {
	capability Capability
	permission Permission
}

// New builds a Notifier and requests permission once. A nil capability
// yields a Notifier that never delivers.
func New(c Capability) *Notifier {
	n := &Notifier{capability: c, permission: PermissionDefault}
	if c == nil || !c.Available() {
		return n
	}
	n.permission = c.RequestPermission()
	appLog.Debug("notification permission", "permission", n.permission)
	return n
}

// Permission is the outcome of the single permission request.
func (n *Notifier) Permission() Permission { return n.permission }

// Enabled reports whether Notify will reach the capability.
func (n *Notifier) Enabled() bool {
	return n.capability != nil && n.permission == PermissionGranted
}

// Notify sends title and body if enabled. Errors are logged and dropped.
func (n *Notifier) Notify(title, body string) {
	if !n.Enabled() {
		return
	}
	if err := n.capability.Send(title, body); err != nil {
		appLog.Debug("notification dropped", "err", err, "title", title)
	}
}

// Backend names accepted by ForBackend.
const (
	BackendDesktop = "desktop"
	BackendLog     = "log"
	BackendNone    = "none"
)

// ForBackend returns the Capability for a configured backend name.
func ForBackend(name, appName string) (Capability, error) {
	switch name {
	case BackendDesktop, "":
		return NewDesktop(appName), nil
	case BackendLog:
		return LogCapability{}, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown notification backend %q", name)
	}
}

// Desktop sends native desktop notifications through beeep.
type Desktop struct {
	appName string
	getenv  func(string) string
	goos    string
	send    func(title, body string) error
}

func NewDesktop(appName string) *Desktop {
	return &Desktop{
		appName: appName,
		getenv:  os.Getenv,
		goos:    runtime.GOOS,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// Available reports whether a desktop session is reachable. On Linux and
// the BSDs that needs a graphical session or a session bus.
func (d *Desktop) Available() bool {
	switch d.goos {
	case "darwin", "windows":
		return true
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, k := range []string{"DISPLAY", "WAYLAND_DISPLAY", "DBUS_SESSION_BUS_ADDRESS"} {
			if d.getenv(k) != "" {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// RequestPermission grants: the OS-level prompt, if any, is owned by the
// notification daemon.
func (d *Desktop) RequestPermission() Permission {
	if d.appName != "" {
		beeep.AppName = d.appName
	}
	return PermissionGranted
}

// Send dispatches without waiting for the notification daemon.
func (d *Desktop) Send(title, body string) error {
	go func() {
		if err := d.send(title, body); err != nil {
			appLog.Debug("desktop notification failed", "err", err)
		}
	}()
	return nil
}

// LogCapability writes notifications to the application log.
type LogCapability struct{}

func (LogCapability) Available() bool               { return true }
func (LogCapability) RequestPermission() Permission { return PermissionGranted }

func (LogCapability) Send(title, body string) error {
	appLog.Info("notification", "title", title, "body", body)
	return nil
}
