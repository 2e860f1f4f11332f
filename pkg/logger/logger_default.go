package logger

import "sync"

type LoggerArg struct {
	Key   string
	Value string
}

type GlobalLoggerConfig struct {
	Args []LoggerArg
}

var (
	defaultLogger     *Logger
	onceLogger        sync.Once
	initializedLogger bool
)

func InitDefaultLogger(config GlobalLoggerConfig) {
	onceLogger.Do(func() {
		l := New()
		for _, arg := range config.Args {
			l = l.WithField(arg.Key, arg.Value)
		}

		defaultLogger = l
		initializedLogger = true
	})
}

func Default() *Logger {
	if !initializedLogger {
		panic("Default logger not initialized: call InitDefaultLogger() first")
	}
	return defaultLogger
}
