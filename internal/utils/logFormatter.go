package utils

import (
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CorrelationField is the logrus field printed in the correlation id column.
const CorrelationField = "correlation_id"

type CustomLogFormatter struct {
	log.TextFormatter
}

// override the TextFormatter.Format method as we need the customFormat in logging.
func (f *CustomLogFormatter) Format(entry *log.Entry) ([]byte, error) {
	var fields string
	timestamp := entry.Time.Format("2006-01-02T15:04:05.000-07:00")

	correlationID := "-"
	if cid, ok := entry.Data[CorrelationField]; ok {
		correlationID = fmt.Sprint(cid)
	}
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != CorrelationField {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		fieldStr := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldStr = append(fieldStr, fmt.Sprintf("%v=%v", k, entry.Data[k]))
		}
		fields = " " + strings.Join(fieldStr, " ")
	}

	logMessage := fmt.Sprintf("%s %s %s %s%s\n",
		timestamp,
		strings.ToUpper(entry.Level.String()),
		correlationID,
		entry.Message,
		fields,
	)

	return []byte(logMessage), nil
}

// ConfigureLogging installs the custom formatter on stderr at the given level.
func ConfigureLogging(level string) {
	log.SetFormatter(&CustomLogFormatter{})
	log.SetOutput(os.Stderr)
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
