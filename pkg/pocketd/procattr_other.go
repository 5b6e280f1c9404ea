//go:build !unix

package pocketd

import "os/exec"

func setProcessGroup(*exec.Cmd) {}
