// Package proc spawns pipelines as process groups and arbitrates ownership
// of the controlling terminal.
package proc

import (
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// Terminal owns the shell side of terminal handoff. Give transfers the
// keyboard to a job's process group, Reclaim takes it back; both degrade to
// no-ops when stdin is not a terminal so the engine stays testable.
type Terminal struct {
	fd          int
	shellPGID   int
	interactive bool
}

// OpenTerminal puts the shell into its own process group, makes that group
// the terminal's foreground group, and returns the handle used for all
// later ownership transfers.
func OpenTerminal() *Terminal {
	t := &Terminal{
		fd:          int(os.Stdin.Fd()),
		interactive: isatty.IsTerminal(os.Stdin.Fd()),
	}

	// Fails with EPERM when the shell is already a session leader; that is
	// fine, the group exists either way.
	_ = unix.Setpgid(0, 0)
	t.shellPGID = unix.Getpgrp()

	if t.interactive {
		// Reclaiming the terminal from a background position must not stop
		// the shell.
		signal.Ignore(unix.SIGTTOU, unix.SIGTTIN)
		_ = t.Give(t.shellPGID)
	}
	return t
}

func (t *Terminal) Interactive() bool {
	return t.interactive
}

func (t *Terminal) ShellPGID() int {
	return t.shellPGID
}

// Give makes pgid the terminal's foreground process group.
func (t *Terminal) Give(pgid int) error {
	if !t.interactive {
		return nil
	}
	return unix.IoctlSetPointerInt(t.fd, unix.TIOCSPGRP, pgid)
}

// Reclaim returns the terminal to the shell. Called unconditionally on
// both foreground-resolution paths, stop included.
func (t *Terminal) Reclaim() {
	_ = t.Give(t.shellPGID)
}

// Foreground reports the terminal's current foreground process group.
func (t *Terminal) Foreground() int {
	if !t.interactive {
		return t.shellPGID
	}
	pgid, err := unix.IoctlGetInt(t.fd, unix.TIOCGPGRP)
	if err != nil {
		return t.shellPGID
	}
	return pgid
}
