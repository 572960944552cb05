// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging provides the logger interface abstraction
// and implementation for the payment adjuster. It uses logrus under the hood.
package logging

import (
	"io"
	"io/ioutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Logger interface {
	Tracef(format string, args ...interface{})
	Trace(args ...interface{})
	Debugf(format string, args ...interface{})
	Debug(args ...interface{})
	Infof(format string, args ...interface{})
	Info(args ...interface{})
	Warningf(format string, args ...interface{})
	Warning(args ...interface{})
	Errorf(format string, args ...interface{})
	Error(args ...interface{})
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	Metrics() []prometheus.Collector
}

type logger struct {
	*logrus.Logger
	metrics metrics
}

// New returns a logger writing to w with the given level.
func New(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	metrics := newMetrics()
	l.AddHook(metrics)
	return &logger{
		Logger:  l,
		metrics: metrics,
	}
}

// Noop returns a logger that discards everything.
func Noop() Logger {
	return New(ioutil.Discard, 0)
}

// ParseLevel parses a verbosity option, accepting logrus level names and the
// numeric values 0 (silent) to 5 (trace).
func ParseLevel(v string) (logrus.Level, error) {
	switch v {
	case "0", "silent":
		return 0, nil
	case "1", "error":
		return logrus.ErrorLevel, nil
	case "2", "warn":
		return logrus.WarnLevel, nil
	case "3", "info":
		return logrus.InfoLevel, nil
	case "4", "debug":
		return logrus.DebugLevel, nil
	case "5", "trace":
		return logrus.TraceLevel, nil
	}
	return logrus.ParseLevel(v)
}
