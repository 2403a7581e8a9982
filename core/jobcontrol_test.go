package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"pipesh/core/job"
	"pipesh/core/proc"
	"pipesh/core/shell"
)

// Drives a real child through the whole lifecycle the control loop sees:
// Running, Stopped, listed by jobs, resumed, Done.
func TestJobControlLifecycle(t *testing.T) {
	pipeline, err := shell.ParseLine("sleep 30")
	require.NoError(t, err)

	started, err := proc.Launch(pipeline)
	require.NoError(t, err)

	tbl := job.NewTable()
	j := tbl.Register(started.PGID, started.Pids, "sleep 30")
	require.Equal(t, job.Running, j.State)

	// Stop the group, as the terminal would on ^Z.
	require.NoError(t, unix.Kill(-j.PGID, unix.SIGSTOP))
	ev, err := job.WaitGroup(j.PGID)
	require.NoError(t, err)
	tbl.Apply(ev)
	assert.Equal(t, job.Stopped, j.State)
	assert.True(t, j.TakeStopReport())

	var listing bytes.Buffer
	job.Render(&listing, tbl.Jobs(), false)
	assert.Equal(t, "[1] Stopped\tsleep 30\n", listing.String())

	// Resume in the background, then terminate.
	require.NoError(t, unix.Kill(-j.PGID, unix.SIGCONT))
	j.SetRunning()
	assert.Equal(t, job.Running, j.State)

	require.NoError(t, unix.Kill(-j.PGID, unix.SIGKILL))
	for j.State == job.Running {
		ev, err := job.WaitGroup(j.PGID)
		require.NoError(t, err)
		tbl.Apply(ev)
	}
	assert.Equal(t, job.Done, j.State)
	assert.True(t, j.TakeDoneReport())

	tbl.RemoveReported()
	assert.Empty(t, tbl.Jobs())
}
