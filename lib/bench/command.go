package bench

import (
	"fmt"
	"strings"
	"time"
)

// Command is the operation a benchmark run performs for every record
type Command string

const (
	CommandInsert Command = "insert"
	CommandUpdate Command = "update"
	CommandDelete Command = "delete"
	CommandSearch Command = "search"
	CommandRecall Command = "recall"
)

// Commands lists all commands a run accepts
var Commands = []Command{CommandInsert, CommandUpdate, CommandDelete, CommandSearch, CommandRecall}

// ParseCommand converts a command name (case-insensitive)
func ParseCommand(name string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Commands {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown benchmark command %q", name)
}

// IsWrite reports whether the command changes the collection. Write runs
// report integer throughput, query runs a floating point one.
func (c Command) IsWrite() bool {
	return c == CommandInsert || c == CommandUpdate || c == CommandDelete
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

const (
	DefaultTopk             = 10
	DefaultProgressInterval = 10000
	DefaultMonitorInterval  = time.Second
)

// Options configures a benchmark run
type Options struct {
	Command    Command
	Collection string
	Column     string

	// Topk is used by search and recall
	Topk uint32

	// ForwardColumns names the corpus attributes sent with writes
	ForwardColumns []string

	// ProgressInterval logs "processed i" for every i divisible by it
	ProgressInterval int

	// MonitorInterval is the QPS sampling period
	MonitorInterval time.Duration
}

func (o *Options) applyDefaults() {
	if o.Topk == 0 {
		o.Topk = DefaultTopk
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.MonitorInterval <= 0 {
		o.MonitorInterval = DefaultMonitorInterval
	}
}

func (o *Options) validate() error {
	if _, err := ParseCommand(string(o.Command)); err != nil {
		return err
	}
	if o.Collection == "" {
		return fmt.Errorf("collection is required")
	}
	if o.Column == "" {
		return fmt.Errorf("column is required for %s", o.Command)
	}
	return nil
}
