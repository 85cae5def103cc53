// Package bslog is the engine's embeddable logging facade. Like any
// library, it must not chatter on a caller's stdout/stderr by
// default: logging is disabled until a host application opts in with
// UseLogger or SetLogWriter.
package bslog

import (
	"errors"
	"io"
	"sync"

	"github.com/cihub/seelog"
)

var (
	mu     sync.RWMutex
	logger seelog.LoggerInterface
)

func init() {
	DisableLog()
}

// DisableLog turns off all logging. This is the default state.
func DisableLog() {
	mu.Lock()
	defer mu.Unlock()
	logger = seelog.Disabled
}

// UseLogger replaces the package logger with newLogger, letting a
// host application route the engine's logs through its own seelog
// configuration.
func UseLogger(newLogger seelog.LoggerInterface) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger
}

// SetLogWriter points the default logger at an arbitrary io.Writer
// (e.g. a file, or os.Stderr for a CLI front end run with --verbose).
func SetLogWriter(writer io.Writer) error {
	if writer == nil {
		return errors.New("nil writer")
	}
	l, err := seelog.LoggerFromWriterWithMinLevel(writer, seelog.TraceLvl)
	if err != nil {
		return err
	}
	UseLogger(l)
	return nil
}

// FlushLog flushes any buffered log output. Callers that configured a
// writer-backed logger should call this before exiting.
func FlushLog() {
	mu.RLock()
	defer mu.RUnlock()
	logger.Flush()
}

func current() seelog.LoggerInterface {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs engine diagnostics (currently the spec load in
// instantiate.Run). Silent unless a caller has opted in.
func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }

// Infof logs a coarse milestone (e.g. a completed instantiation run).
func Infof(format string, args ...interface{}) { current().Infof(format, args...) }

// Warnf logs a recoverable anomaly that did not abort the run.
func Warnf(format string, args ...interface{}) { current().Warnf(format, args...) }

// Errorf logs a failure already being returned to the caller as an error.
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }
