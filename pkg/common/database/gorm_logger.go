package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM output through logrus. Statements are logged at
// trace level; slow statements and failures at warn.
type GormLogger struct {
	log           *logrus.Logger
	slowThreshold time.Duration
}

func NewGormLogger(log *logrus.Logger, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{log: log, slowThreshold: slowThreshold}
}

func (l *GormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	l.log.Warn(fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := l.log.WithFields(logrus.Fields{
		"sql":           sql,
		"rows_affected": rows,
		"duration_ms":   elapsed.Milliseconds(),
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithError(err).Warn("query error")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		entry.Warn("slow query")
	default:
		entry.Trace("query")
	}
}
