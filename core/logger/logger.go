// Package logger is a standardized event logging framework for shell
// sessions. Events are written as newline delimited JSON so external tools
// can follow along.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogEntry is one recorded event. Exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart  *SessionStart  `json:"session_start,omitempty"`
	SessionEnd    *SessionEnd    `json:"session_end,omitempty"`
	CommandRun    *CommandRun    `json:"command_run,omitempty"`
	LookupFailure *LookupFailure `json:"lookup_failure,omitempty"`
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	User       string `json:"user,omitempty"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// SessionEnd marks the end of a session with the shell's exit status.
type SessionEnd struct {
	ExitStatus int `json:"exit_status"`
}

// CommandRun records one dispatched command.
type CommandRun struct {
	// Path is the resolved executable path, or the builtin name.
	Path string   `json:"path"`
	Argv []string `json:"argv"`
}

// LookupFailure records a command name that resolved to nothing.
type LookupFailure struct {
	Name string `json:"name"`
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell interaction events.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that discards every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(le *LogEntry) error { return nil },
	}
}

func (l *Logger) recordEvent(sessionID string, event *LogEntry) error {
	event.TimestampMicros = time.Now().UnixNano() / int64(time.Microsecond)
	event.SessionID = sessionID
	return l.Record(event)
}

// NewSession creates a logger with an attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

func (s *SessionLogger) SessionStart(user, workingDir string) error {
	return s.recordEvent(s.sessionID, &LogEntry{
		SessionStart: &SessionStart{User: user, WorkingDir: workingDir},
	})
}

func (s *SessionLogger) SessionEnd(exitStatus int) error {
	return s.recordEvent(s.sessionID, &LogEntry{
		SessionEnd: &SessionEnd{ExitStatus: exitStatus},
	})
}

func (s *SessionLogger) CommandRun(path string, argv []string) error {
	return s.recordEvent(s.sessionID, &LogEntry{
		CommandRun: &CommandRun{Path: path, Argv: argv},
	})
}

func (s *SessionLogger) LookupFailure(name string) error {
	return s.recordEvent(s.sessionID, &LogEntry{
		LookupFailure: &LookupFailure{Name: name},
	})
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}
		handler(&logEntry)
	}
	return nil
}
