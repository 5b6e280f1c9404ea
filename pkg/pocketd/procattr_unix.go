//go:build unix

package pocketd

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts pocketd in its own process group so a terminal
// Ctrl-C reaches supplierkit only.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
