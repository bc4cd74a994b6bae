package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor("mysql", "user:pw@tcp(localhost:3306)/db")
	assert.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = dialectorFor("postgres", "host=localhost user=u dbname=db")
	assert.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = dialectorFor("sqlserver", "")
	assert.Error(t, err)
}

func TestGormSlogLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := newGormSlogLogger(base, false)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Contains(t, buf.String(), "gorm query failed")
	assert.Contains(t, buf.String(), "SELECT 1")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	assert.Contains(t, buf.String(), "gorm slow query")

	buf.Reset()
	l.Trace(context.Background(), time.Now(), fc, nil)
	assert.Empty(t, buf.String())

	buf.Reset()
	l.LogMode(logger.Info).Trace(context.Background(), time.Now(), fc, nil)
	assert.Contains(t, buf.String(), "gorm query")
}
