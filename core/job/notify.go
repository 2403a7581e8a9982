package job

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Event is one child state change pulled out of the kernel with wait4.
type Event struct {
	Pid    int
	Status unix.WaitStatus
}

// Notifier bridges asynchronous SIGCHLD delivery to the synchronous control
// loop. The signal handler side only posts a wakeup on a channel; the
// actual reaping happens in Drain, on the caller's goroutine, so no shared
// state is ever touched from handler context.
type Notifier struct {
	C chan os.Signal
}

func NewNotifier() *Notifier {
	n := &Notifier{
		// Coalesced signals are fine: Drain loops until the kernel has
		// nothing pending, so one wakeup covers any number of children.
		C: make(chan os.Signal, 16),
	}
	signal.Notify(n.C, unix.SIGCHLD)
	return n
}

// Drain collects every pending child state change without blocking. It
// accepts stopped and continued children as well as exits, so nothing a
// foreground wait did not consume is lost.
func (n *Notifier) Drain() []Event {
	for {
		select {
		case <-n.C:
			continue
		default:
		}
		break
	}

	var events []Event
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			return events
		}
		events = append(events, Event{Pid: pid, Status: status})
	}
}

func (n *Notifier) Close() {
	signal.Stop(n.C)
}

// WaitGroup blocks until some member of the process group exits, is killed,
// or stops. Used only by the foreground wait; the group's own stop/exit is
// the sole bound, there is no timeout.
func WaitGroup(pgid int) (Event, error) {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-pgid, &status, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return Event{}, err
		}
		return Event{Pid: pid, Status: status}, nil
	}
}
