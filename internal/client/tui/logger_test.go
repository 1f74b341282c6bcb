package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogFormatter(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{
		"draft_id": "42",
		"error":    errors.New("boom"),
	})
	entry.Time = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	entry.Level = logrus.ErrorLevel
	entry.Message = "could not save draft"

	data, err := new(logFormatter).Format(entry)
	assert.NoError(t, err)
	assert.Equal(t, "[2026-10-18T09:30:00Z] ERROR: could not save draft (draft_id=42, error=boom)\n", string(data))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, level(""))
	assert.Equal(t, logrus.WarnLevel, level("warn"))
	assert.Equal(t, logrus.DebugLevel, level("chatty"))
}
