package job

import (
	"fmt"
	"io"
)

// Render writes a jobs listing. Done jobs are omitted; they are announced
// by the control loop's reporting pass instead. The long form additionally
// shows the process group id.
func Render(w io.Writer, jobs []*Job, long bool) {
	for _, j := range jobs {
		if j.State == Done {
			continue
		}
		if long {
			fmt.Fprintf(w, "[%d] %d %s\t%s\n", j.ID, j.PGID, j.State, j.Command)
		} else {
			fmt.Fprintf(w, "[%d] %s\t%s\n", j.ID, j.State, j.Command)
		}
	}
}
