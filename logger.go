package tabconv

import (
	"fmt"
	"log"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var logLevel LogLevel = LogLevelWarn

// SetLogLevel overrides logLevel for tabconv library, default is WARN
func SetLogLevel(lv LogLevel) {
	logLevel = lv
}

func LogDebugf(format string, v ...interface{}) {
	if logLevel <= LogLevelDebug {
		format = fmt.Sprintf("tabconv.debug: %s", format)
		log.Printf(format, v...)
	}
}

func LogInfof(format string, v ...interface{}) {
	if logLevel <= LogLevelInfo {
		format = fmt.Sprintf("tabconv.info: %s", format)
		log.Printf(format, v...)
	}
}

func LogWarnf(format string, v ...interface{}) {
	if logLevel <= LogLevelWarn {
		format = fmt.Sprintf("tabconv.warn: %s", format)
		log.Printf(format, v...)
	}
}

func LogErrorf(format string, v ...interface{}) {
	if logLevel <= LogLevelError {
		format = fmt.Sprintf("tabconv.error: %s", format)
		log.Printf(format, v...)
	}
}
