package immutablecheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

type logLevel int

const (
	warn logLevel = iota
	info
	errr
	dbug
)

func (l logLevel) slogLevel() slog.Level {
	switch l {
	case warn:
		return slog.LevelWarn
	case errr:
		return slog.LevelError
	case dbug:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

type logLocation int

const (
	nowhere logLocation = iota
	stderr
	filelog
)

var (
	logDestination string
	logLoc         logLocation
	logFile        *os.File
	logger         *slog.Logger
	logMutex       sync.Mutex
)

// SetLogDestination selects where debug logs go: "" suppresses them,
// "stderr" writes to standard error, anything else is a file path opened
// for append on first use.
func SetLogDestination(dest string) {
	logMutex.Lock()
	defer logMutex.Unlock()

	logDestination = dest
	logger = nil

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	switch dest {
	case "":
		logLoc = nowhere
	case "stderr":
		logLoc = stderr
	default:
		logLoc = filelog
	}
}

// openLogger must be called with logMutex held.
func openLogger() *slog.Logger {
	if logger != nil {
		return logger
	}

	var w io.Writer
	switch logLoc {
	case stderr:
		w = os.Stderr
	case filelog:
		f, err := os.OpenFile(logDestination, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", logDestination, err)
			logLoc = nowhere
			return nil
		}
		logFile = f
		w = f
	default:
		return nil
	}

	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("analyzer", "immutablecheck")
	return logger
}

func putLog(level logLevel, msg string, args ...any) {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logLoc == nowhere {
		return
	}
	l := openLogger()
	if l == nil {
		return
	}
	l.Log(context.Background(), level.slogLevel(), msg, args...)
}
