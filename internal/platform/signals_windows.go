//go:build windows

package platform

import "os"

// Console apps on Windows only reliably receive Ctrl+C
var shutdownSignals = []os.Signal{os.Interrupt}
