// Package core runs the interactive shell: the read-parse-launch-wait loop
// and the job-control builtins.
package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"pipesh/core/config"
	"pipesh/core/job"
	"pipesh/core/proc"
	"pipesh/core/shell"
)

var (
	colorUserHost = color.New(color.FgGreen, color.Bold)
	colorWorkDir  = color.New(color.FgBlue, color.Bold)
)

// Shell is one interactive session. All job-table mutation happens on the
// goroutine running Run; signal handlers only forward or post wakeups.
type Shell struct {
	Config   *config.Configuration
	Readline *readline.Instance
	Jobs     *job.Table

	term     *proc.Terminal
	notifier *job.Notifier
	sigs     chan os.Signal
	fgPGID   atomic.Int64 // group to forward keyboard signals to; 0 = none
	quit     bool
}

func NewShell(cfg *config.Configuration) (*Shell, error) {
	term := proc.OpenTerminal()

	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     cfg.HistoryPath(),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, err
	}

	s := &Shell{
		Config:   cfg,
		Readline: rl,
		Jobs:     job.NewTable(),
		term:     term,
		notifier: job.NewNotifier(),
		sigs:     make(chan os.Signal, 4),
	}

	// Keyboard interrupt and stop are meant for the foreground job, never
	// for the shell itself.
	signal.Notify(s.sigs, unix.SIGINT, unix.SIGTSTP)
	go s.forwardSignals()

	return s, nil
}

func (s *Shell) forwardSignals() {
	for sig := range s.sigs {
		if pgid := s.fgPGID.Load(); pgid > 0 {
			_ = unix.Kill(-int(pgid), sig.(unix.Signal))
		}
	}
}

func (s *Shell) Close() error {
	signal.Stop(s.sigs)
	close(s.sigs)
	s.notifier.Close()
	return s.Readline.Close()
}

// Run is the control loop. It returns on end-of-input or the exit builtin.
func (s *Shell) Run() error {
	for !s.quit {
		// Jobs reported Done last pass leave the table now, never in the
		// pass that announced them.
		s.Jobs.RemoveReported()
		s.drainNotifications()
		s.reportChanges()

		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil
		case err == readline.ErrInterrupt:
			continue
		case err != nil:
			log.Printf("readline: %v", err)
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		s.runLine(line)
	}
	return nil
}

// drainNotifications applies every pending child state change. This is the
// only place besides the foreground wait where children are reaped, and
// both run on the control-loop goroutine.
func (s *Shell) drainNotifications() {
	for _, ev := range s.notifier.Drain() {
		s.Jobs.Apply(ev)
	}
}

// reportChanges announces finished and freshly stopped jobs, each exactly
// once.
func (s *Shell) reportChanges() {
	for _, j := range s.Jobs.Jobs() {
		switch {
		case j.TakeDoneReport():
			fmt.Fprintf(s.Readline, "[%d] Done\t%s\n", j.ID, j.Command)
		case j.TakeStopReport():
			fmt.Fprintf(s.Readline, "[%d] Stopped\t%s\n", j.ID, j.Command)
		}
	}
}

func (s *Shell) runLine(line string) {
	pipeline, err := shell.ParseLine(line)
	if err != nil {
		fmt.Fprintf(s.Readline, "pipesh: %v\n", err)
		return
	}

	// Builtins run in-process only as a plain single command; with pipes or
	// redirections they go through the launcher like anything else.
	if len(pipeline.Commands) == 1 {
		cmd := pipeline.Commands[0]
		if cmd.Infile == "" && cmd.Outfile == "" {
			if builtin, ok := AllBuiltins[cmd.Argv[0]]; ok {
				builtin.Main(s, cmd.Argv)
				return
			}
		}
	}

	started, err := proc.Launch(pipeline)
	if err != nil {
		fmt.Fprintf(s.Readline, "pipesh: %v\n", err)
		return
	}

	j := s.Jobs.Register(started.PGID, started.Pids, strings.TrimSpace(line))
	if pipeline.Background {
		fmt.Fprintf(s.Readline, "[%d] %d %s\n", j.ID, j.PGID, j.Command)
		return
	}
	s.foreground(j, false)
}

// foreground hands the terminal to the job and blocks until the whole
// group exits or any member stops. The terminal comes back to the shell on
// both paths.
func (s *Shell) foreground(j *job.Job, resume bool) {
	if err := s.term.Give(j.PGID); err != nil {
		fmt.Fprintf(s.Readline, "pipesh: terminal: %v\n", err)
	}
	s.fgPGID.Store(int64(j.PGID))

	if resume {
		if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
			fmt.Fprintf(s.Readline, "pipesh: continue: %v\n", err)
		}
		j.SetRunning()
	}

	for j.State == job.Running {
		ev, err := job.WaitGroup(j.PGID)
		if err != nil {
			// ECHILD: every member was already reaped.
			break
		}
		s.Jobs.Apply(ev)
	}

	s.fgPGID.Store(0)
	s.term.Reclaim()

	if j.TakeStopReport() {
		fmt.Fprintf(s.Readline, "\n[%d] Stopped\t%s\n", j.ID, j.Command)
	}
}

func (s *Shell) shouldColor() bool {
	switch s.Config.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}

// prompt expands the configured PS1-style prompt: \u user, \h host, \w
// working directory with ~ contraction, \$ prompt character.
func (s *Shell) prompt() string {
	prompt := s.Config.Prompt

	user := os.Getenv("USER")
	host, _ := os.Hostname()

	pwd, _ := os.Getwd()
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if strings.HasPrefix(pwd, home) {
			pwd = "~" + strings.TrimPrefix(pwd, home)
		}
	}

	mark := "$"
	if os.Getuid() == 0 {
		mark = "#"
	}

	userHost := user + "@" + host
	if s.shouldColor() {
		userHost = colorUserHost.Sprint(userHost)
		pwd = colorWorkDir.Sprint(pwd)
	}

	prompt = strings.ReplaceAll(prompt, `\u@\h`, userHost)
	prompt = strings.ReplaceAll(prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, host)
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)
	prompt = strings.ReplaceAll(prompt, `\$`, mark)
	return prompt
}
