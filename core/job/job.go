// Package job tracks launched pipelines: their process groups, lifecycle
// states, and the asynchronous child-status notifications that drive them.
package job

// State is the lifecycle state of a job.
type State int

const (
	Running State = iota
	Stopped
	Done
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Job is the shell's view of one launched pipeline. IDs are small positive
// integers, monotonically increasing and never reused within a session.
//
// Jobs are owned by a Table and mutated only through status events and
// explicit resume; the sole writer is the shell's control loop.
type Job struct {
	ID      int
	PGID    int
	Command string
	State   State

	members      map[int]struct{} // pids not yet reaped
	stopToReport bool
	doneToReport bool
	doneReported bool
}

// SetRunning records an explicit resume (fg/bg sent SIGCONT). Done is
// terminal; resuming a finished job is a no-op.
func (j *Job) SetRunning() {
	if j.State == Done {
		return
	}
	j.State = Running
	j.stopToReport = false
}

// TakeStopReport returns true at most once per stop, so the user is
// informed exactly once.
func (j *Job) TakeStopReport() bool {
	if j.State == Stopped && j.stopToReport {
		j.stopToReport = false
		return true
	}
	return false
}

// TakeDoneReport returns true at most once, when the job has been observed
// Done and not yet announced. The table removes the job on the pass after
// the report was taken.
func (j *Job) TakeDoneReport() bool {
	if j.State == Done && j.doneToReport {
		j.doneToReport = false
		j.doneReported = true
		return true
	}
	return false
}

func (j *Job) markStopped() {
	if j.State == Done {
		return
	}
	if j.State != Stopped {
		j.stopToReport = true
	}
	j.State = Stopped
}

func (j *Job) reapMember(pid int) {
	delete(j.members, pid)
	if len(j.members) == 0 && j.State != Done {
		j.State = Done
		j.doneToReport = true
		j.stopToReport = false
	}
}
