//go:build dev

package devlog

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

const appName = "stylegraph"

// socketPath is where the local log daemon listens.
var socketPath = "/tmp/mcplogd.sock"

type entry struct {
	App       string         `json:"app"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Hook forwards every log entry to the local log daemon.
func Hook() logrus.Hook {
	return socketHook{}
}

type socketHook struct{}

func (socketHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire never fails: a missing daemon just drops the entry.
func (socketHook) Fire(e *logrus.Entry) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil
	}
	defer conn.Close()

	var metadata map[string]any
	if len(e.Data) > 0 {
		metadata = make(map[string]any, len(e.Data))
		for key, value := range e.Data {
			if err, ok := value.(error); ok {
				value = err.Error()
			}
			metadata[key] = value
		}
	}

	data, err := json.Marshal(entry{
		App:       appName,
		Level:     e.Level.String(),
		Message:   e.Message,
		Timestamp: e.Time.UTC().Format(time.RFC3339Nano),
		Metadata:  metadata,
	})
	if err != nil {
		return nil
	}
	fmt.Fprintf(conn, "%s\n", data)
	return nil
}
