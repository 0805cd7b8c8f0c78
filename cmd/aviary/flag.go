package main

import (
	"Aviary/internal/logger"

	"go.uber.org/zap/zapcore"
)

type logLevelFlag struct {
	value zapcore.Level
}

func (l *logLevelFlag) String() string {
	return l.value.String()
}

func (l *logLevelFlag) Set(value string) error {
	v, err := logger.ParseLevel(value)
	if err != nil {
		return err
	}
	l.value = v
	return nil
}
