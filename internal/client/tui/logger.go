package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFilename is the file where the TUI logs are written.
const LogFilename = "tcc.log"

// LogLevelEnv overrides the default debug level of the TUI logger.
const LogLevelEnv = "TCC_LOG_LEVEL"

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// Logger returns the TUI logger.
// Nothing is written on stdout or stderr, they belong to the terminal screen.
func Logger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetFormatter(new(logFormatter))
		logger.SetOutput(&lumberjack.Logger{
			Filename:   LogFilename,
			MaxSize:    20, // megabytes
			MaxBackups: 2,
			MaxAge:     10, // days
		})
		logger.SetLevel(level(os.Getenv(LogLevelEnv)))
	})
	return logger
}

// Dump logs a detailed representation of v.
func Dump(v any) {
	Logger().WithField("type", fmt.Sprintf("%T", v)).Debug(litter.Sdump(v))
}

func level(s string) logrus.Level {
	if s == "" {
		return logrus.DebugLevel
	}

	l, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.DebugLevel
	}
	return l
}

type logFormatter struct{}

// Format renders an entry on a single line with its fields sorted by name.
func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %+5s: %s",
		entry.Time.Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
	)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, entry.Data[k])
		}
		b.WriteString(")")
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
