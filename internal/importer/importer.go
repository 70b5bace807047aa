// Package importer runs external OSM import tooling (osm2pgsql, ogr2ogr)
// as tracked subprocesses and streams their stdout onto the event bus. It
// does not build pool.Tasks itself and does not feed the graph builder.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/geoflow/internal/events"
	"github.com/aristath/geoflow/internal/procman"
)

// ToolConfig names an external tool binary and the fixed arguments every
// invocation should carry (e.g. osm2pgsql's --create, --slim flags).
type ToolConfig struct {
	Path string
	Args []string
}

// Importer runs external import tools as tracked subprocesses and streams
// their output onto the event bus for a dashboard to display.
type Importer struct {
	pm  *procman.ProcessManager
	bus *events.EventBus
}

// New creates an Importer. pm is shared with the rest of the process so a
// shutdown can kill every tracked subprocess, importer-launched or not.
func New(pm *procman.ProcessManager, bus *events.EventBus) *Importer {
	return &Importer{pm: pm, bus: bus}
}

// Run invokes tool against sourcePath and returns its combined stdout once
// the process exits. Output lines are published as TaskOutputEvents under
// taskName as they arrive, not buffered until completion, so a dashboard
// can show progress on a long osm2pgsql run.
//
// Intended to be wrapped in a pool.Func and installed on a Task via
// SetFunctionWithResult, so import steps take part in the same dependency
// graph as the rest of a pipeline run (e.g. "import before graph-build").
func (im *Importer) Run(ctx context.Context, taskName string, tool ToolConfig, sourcePath string) (string, error) {
	args := append(append([]string{}, tool.Args...), sourcePath)
	cmd := procman.NewCommand(ctx, tool.Path, args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start %s: %w", tool.Path, err)
	}
	im.pm.Track(cmd)
	defer im.pm.Untrack(cmd)

	var out strings.Builder
	scanner := bufio.NewScanner(stdoutPipe)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		out.WriteString(line)
		out.WriteByte('\n')
		im.publishOutput(taskName, line)
	}

	waitErr := cmd.Wait()
	if waitErr != nil {
		return out.String(), fmt.Errorf("%s failed: %w", tool.Path, waitErr)
	}
	return out.String(), nil
}

func (im *Importer) publishOutput(taskName, line string) {
	if im.bus == nil {
		return
	}
	im.bus.Publish(events.TopicTask, events.TaskOutputEvent{
		Name:      taskName,
		Line:      line,
		Timestamp: time.Now(),
	})
}
