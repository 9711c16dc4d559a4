package utils_test

import (
	"testing"
	"time"

	"github.com/neckchi/vesseleta/internal/utils"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomLogFormatter(t *testing.T) {
	t.Parallel()

	entry := &log.Entry{
		Time:    time.Date(2025, 7, 21, 8, 0, 0, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "fetch ESCO: http status 503",
		Data:    log.Fields{utils.CorrelationField: "abc-123", "terminal": "ESCO", "attempt": 1},
	}

	out, err := (&utils.CustomLogFormatter{}).Format(entry)

	require.NoError(t, err)
	assert.Equal(t, "2025-07-21T08:00:00.000+00:00 WARNING abc-123 fetch ESCO: http status 503 attempt=1 terminal=ESCO\n", string(out))
}

func TestCustomLogFormatter_NoCorrelationID(t *testing.T) {
	t.Parallel()

	entry := &log.Entry{Time: time.Unix(0, 0).UTC(), Level: log.InfoLevel, Message: "CheckAll: 7 terminals", Data: log.Fields{}}

	out, err := (&utils.CustomLogFormatter{}).Format(entry)

	require.NoError(t, err)
	assert.Contains(t, string(out), "INFO - CheckAll: 7 terminals\n")
}
