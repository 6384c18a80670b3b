package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kataras/pio"
)

const (
	levelDebug uint32 = iota
	levelInfo
	levelWarn
	levelError
)

var (
	printer = pio.NewPrinter("scconn", os.Stdout)
	level   = levelInfo
)

// SetLevel sets the minimum level that gets printed.
// Accepts "debug", "info", "warn", "error". Unknown names keep "info".
func SetLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		atomic.StoreUint32(&level, levelDebug)
	case "info":
		atomic.StoreUint32(&level, levelInfo)
	case "warn", "warning":
		atomic.StoreUint32(&level, levelWarn)
	case "error":
		atomic.StoreUint32(&level, levelError)
	default:
		atomic.StoreUint32(&level, levelInfo)
	}
}

// SetOutput replaces the printer destination, mainly for tests.
func SetOutput(w io.Writer) {
	printer = pio.NewPrinter("scconn", w)
}

func Debug(v ...interface{}) {
	output(levelDebug, "DEBUG", fmt.Sprint(v...))
}

func Debugf(format string, args ...interface{}) {
	output(levelDebug, "DEBUG", fmt.Sprintf(format, args...))
}

func Info(v ...interface{}) {
	output(levelInfo, "INFO", fmt.Sprint(v...))
}

func Infof(format string, args ...interface{}) {
	output(levelInfo, "INFO", fmt.Sprintf(format, args...))
}

func Warn(v ...interface{}) {
	output(levelWarn, "WARN", fmt.Sprint(v...))
}

func Warnf(format string, args ...interface{}) {
	output(levelWarn, "WARN", fmt.Sprintf(format, args...))
}

func Error(v ...interface{}) {
	output(levelError, "ERROR", fmt.Sprint(v...))
}

func Errorf(format string, args ...interface{}) {
	output(levelError, "ERROR", fmt.Sprintf(format, args...))
}

func output(l uint32, tag, msg string) {
	if l < atomic.LoadUint32(&level) {
		return
	}
	printer.Println(fmt.Sprintf("%s [%s] %s", time.Now().Format("2006/01/02 15:04:05"), tag, msg))
}
