package proc

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"pipesh/core/shell"
)

// SpawnError reports a pipeline that could not be fully launched. By the
// time it is returned, every already-started stage has been killed and
// reaped and every untransferred descriptor closed.
type SpawnError struct {
	Stage string // argv[0] of the failing stage
	Err   error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Started describes a successfully launched pipeline: the process group
// shared by all stages and the pid of each stage in order. Ownership of the
// group passes to the job table on registration.
type Started struct {
	PGID int
	Pids []int
}

func closeAll(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

// Launch spawns one child per stage, left to right, wiring adjacent stages
// with anonymous pipes. The first child establishes a new process group
// equal to its own pid; the rest join it. Group membership is set in the
// child before exec, and Start does not return until the exec point, so
// later stages never race the group's creation.
//
// A stage adopts its pipe endpoints first and applies explicit file
// redirections after, so `<file`/`>file` always win over the pipe
// connection. The parent closes its copies of every endpoint as soon as
// the owning stage has started, so EOF propagates once real writers exit.
//
// Reaping is not done here: the job table owns every wait.
func Launch(p *shell.Pipeline) (*Started, error) {
	n := len(p.Commands)
	started := &Started{}
	var prevRead *os.File

	fail := func(stage string, pending []*os.File, err error) (*Started, error) {
		closeAll(pending)
		if prevRead != nil {
			prevRead.Close()
		}
		if started.PGID != 0 {
			_ = unix.Kill(-started.PGID, unix.SIGKILL)
			for _, pid := range started.Pids {
				var status unix.WaitStatus
				for {
					if _, werr := unix.Wait4(pid, &status, 0, nil); werr != unix.EINTR {
						break
					}
				}
			}
		}
		return nil, &SpawnError{Stage: stage, Err: err}
	}

	for i, c := range p.Commands {
		if len(c.Argv) == 0 {
			return fail("", nil, fmt.Errorf("empty command"))
		}
		name := c.Argv[0]

		// Descriptors opened for this stage but not yet handed off.
		var pending []*os.File

		cmd := exec.Command(name, c.Argv[1:]...)
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Setpgid: true,
			Pgid:    started.PGID,
		}

		// Input: previous pipe if any, terminal otherwise; an explicit
		// infile overrides either.
		stdin := os.Stdin
		if prevRead != nil {
			stdin = prevRead
		}
		if c.Infile != "" {
			f, err := os.Open(c.Infile)
			if err != nil {
				return fail(name, pending, err)
			}
			pending = append(pending, f)
			stdin = f
		}
		cmd.Stdin = stdin

		// Output: a fresh pipe for interior stages, terminal for the last;
		// an explicit outfile overrides either.
		var nextRead *os.File
		stdout := os.Stdout
		if i+1 < n {
			pr, pw, err := os.Pipe()
			if err != nil {
				return fail(name, pending, err)
			}
			pending = append(pending, pr, pw)
			nextRead, stdout = pr, pw
		}
		if c.Outfile != "" {
			flags := os.O_WRONLY | os.O_CREATE
			if c.Append {
				flags |= os.O_APPEND
			} else {
				flags |= os.O_TRUNC
			}
			f, err := os.OpenFile(c.Outfile, flags, 0644)
			if err != nil {
				return fail(name, pending, err)
			}
			pending = append(pending, f)
			stdout = f
		}
		cmd.Stdout = stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			return fail(name, pending, err)
		}
		if i == 0 {
			started.PGID = cmd.Process.Pid
		}
		started.Pids = append(started.Pids, cmd.Process.Pid)

		// Hand off: the child holds duplicates on fds 0/1/2 now; the
		// parent keeps only the read end feeding the next stage.
		for _, f := range pending {
			if f != nextRead {
				f.Close()
			}
		}
		if prevRead != nil {
			prevRead.Close()
		}
		prevRead = nextRead
	}

	return started, nil
}
