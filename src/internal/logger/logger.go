package logger

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]any

var base = newBase()

var sensitiveKeys = map[string]struct{}{
	"pin":           {},
	"password":      {},
	"passwordhash":  {},
	"password_hash": {},
	"authorization": {},
	"adminpassword": {},
}

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel parses a logrus level name; unknown names leave the level unchanged.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return
	}
	base.SetLevel(parsed)
}

func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

func Info(message string, fields Fields) {
	base.WithFields(toLogrus(fields)).Info(message)
}

func Error(message string, err error, fields Fields) {
	entry := base.WithFields(toLogrus(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func toLogrus(fields Fields) logrus.Fields {
	if fields == nil {
		return logrus.Fields{}
	}

	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return logrus.Fields{}
	}

	return logrus.Fields(sanitized)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
