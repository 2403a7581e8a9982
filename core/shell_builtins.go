package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"golang.org/x/sys/unix"

	"pipesh/core/job"
)

// Builtin is a command the shell runs in-process because it has to mutate
// shell state: the working directory, the session, or the job table.
type Builtin struct {
	Use   string
	Short string
	Main  func(s *Shell, args []string) int
}

// AllBuiltins maps builtin names to implementations.
var AllBuiltins = map[string]*Builtin{
	"cd": {
		Use:   "cd [dir]",
		Short: "Change the working directory.",
		Main:  builtinCd,
	},
	"exit": {
		Use:   "exit",
		Short: "Terminate the session.",
		Main:  builtinExit,
	},
	"jobs": {
		Use:   "jobs [-l]",
		Short: "List jobs and their states.",
		Main:  builtinJobs,
	},
	"fg": {
		Use:   "fg %id",
		Short: "Move a job to the foreground, resuming it if stopped.",
		Main:  builtinFg,
	},
	"bg": {
		Use:   "bg %id",
		Short: "Resume a stopped job in the background.",
		Main:  builtinBg,
	},
}

func builtinCd(s *Shell, args []string) int {
	var dir string
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(s.Readline, "cd: %v\n", err)
			return 1
		}
		dir = home
	case 2:
		dir = args[1]
	default:
		fmt.Fprintln(s.Readline, "cd: too many arguments")
		return 1
	}

	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(s.Readline, "cd: %v\n", err)
		return 1
	}
	return 0
}

func builtinExit(s *Shell, args []string) int {
	// Terminates the session immediately; running jobs are not cleaned up.
	s.quit = true
	return 0
}

func builtinJobs(s *Shell, args []string) int {
	opts := getopt.New()
	long := opts.Bool('l', "also show process group ids")
	if err := opts.Getopt(args, nil); err != nil {
		fmt.Fprintf(s.Readline, "jobs: %v\n", err)
		return 1
	}

	// Catch up on pending notifications so the listing is current.
	s.drainNotifications()
	job.Render(s.Readline, s.Jobs.Jobs(), *long)
	return 0
}

// parseJobSpec resolves a job argument like "2" or "%2".
func parseJobSpec(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "%"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job spec %q", arg)
	}
	return id, nil
}

func (s *Shell) resolveJob(name string, args []string) *job.Job {
	if len(args) < 2 {
		fmt.Fprintf(s.Readline, "%s: usage: %s %%jobid\n", name, name)
		return nil
	}
	id, err := parseJobSpec(args[1])
	if err != nil {
		fmt.Fprintf(s.Readline, "%s: %v\n", name, err)
		return nil
	}

	s.drainNotifications()
	j := s.Jobs.ByID(id)
	if j == nil || j.State == job.Done {
		fmt.Fprintf(s.Readline, "%s: %s: no such job\n", name, args[1])
		return nil
	}
	return j
}

func builtinFg(s *Shell, args []string) int {
	j := s.resolveJob("fg", args)
	if j == nil {
		return 1
	}

	// Announce what is taking over the terminal before blocking.
	fmt.Fprintln(s.Readline, j.Command)
	s.foreground(j, j.State == job.Stopped)
	return 0
}

func builtinBg(s *Shell, args []string) int {
	j := s.resolveJob("bg", args)
	if j == nil {
		return 1
	}

	if j.State == job.Stopped {
		if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
			fmt.Fprintf(s.Readline, "bg: continue: %v\n", err)
			return 1
		}
	}
	j.SetRunning()
	fmt.Fprintf(s.Readline, "[%d] %d %s\n", j.ID, j.PGID, j.Command)
	return 0
}
