package job

// Table owns every live job. It is not safe for concurrent use; all calls
// must come from the shell's control loop, which drains notifications
// itself rather than letting a signal handler touch shared state.
type Table struct {
	jobs   []*Job
	byPid  map[int]*Job
	nextID int
}

func NewTable() *Table {
	return &Table{
		byPid:  make(map[int]*Job),
		nextID: 1,
	}
}

// Register adds a freshly launched process group as a Running job.
func (t *Table) Register(pgid int, pids []int, command string) *Job {
	j := &Job{
		ID:      t.nextID,
		PGID:    pgid,
		Command: command,
		State:   Running,
		members: make(map[int]struct{}, len(pids)),
	}
	t.nextID++

	for _, pid := range pids {
		j.members[pid] = struct{}{}
		t.byPid[pid] = j
	}
	t.jobs = append(t.jobs, j)
	return j
}

// Apply feeds one reaped child status into the state machine. Events for
// pids the table does not know (including members of already-Done jobs)
// are no-ops, not errors.
func (t *Table) Apply(ev Event) {
	j, ok := t.byPid[ev.Pid]
	if !ok {
		return
	}

	switch {
	case ev.Status.Stopped():
		j.markStopped()
	case ev.Status.Continued():
		j.SetRunning()
	case ev.Status.Exited() || ev.Status.Signaled():
		delete(t.byPid, ev.Pid)
		j.reapMember(ev.Pid)
	}
}

// Jobs returns every tracked job in registration order, including Done
// jobs that have not been pruned yet.
func (t *Table) Jobs() []*Job {
	out := make([]*Job, len(t.jobs))
	copy(out, t.jobs)
	return out
}

// ByID finds a job by its id, or nil.
func (t *Table) ByID(id int) *Job {
	for _, j := range t.jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

// ByPGID finds a job by its process group, or nil.
func (t *Table) ByPGID(pgid int) *Job {
	for _, j := range t.jobs {
		if j.PGID == pgid {
			return j
		}
	}
	return nil
}

// RemoveReported prunes Done jobs whose completion was already announced.
// Called at the top of each control-loop pass so a job is never removed in
// the same pass that reported it.
func (t *Table) RemoveReported() {
	alive := t.jobs[:0]
	for _, j := range t.jobs {
		if j.State == Done && j.doneReported {
			continue
		}
		alive = append(alive, j)
	}
	t.jobs = alive
}
