package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/cacheaside"
)

var _ cacheaside.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New tags every record with component=cacheaside.
func New(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{E: l.WithField("component", "cacheaside")}
}

func (l LogrusLogger) Debug(msg string, f cacheaside.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f cacheaside.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f cacheaside.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f cacheaside.Fields) { l.with(f).Error(msg) }

// with maps the "err" field onto logrus.ErrorKey so formatters and hooks
// treat it as the record's error.
func (l LogrusLogger) with(f cacheaside.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			out[logrus.ErrorKey] = err
			continue
		}
		out[k] = v
	}
	return l.E.WithFields(out)
}
