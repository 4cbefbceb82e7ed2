package main

import "os/exec"

// remountRoot shells out to remount the root filesystem after the
// overlay file has been unlinked, so the kernel re-exposes the ROM
// copy underneath. This is the one place jct touches a collaborator
// outside the process; it is not meaningfully testable without a real
// OverlayFS mount and is exercised only by the restore verb's
// precondition checks in tests.
func remountRoot() error {
	return exec.Command("mount", "-o", "remount", "/").Run()
}
