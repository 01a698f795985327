package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field keys shared by every package that logs hand activity.
const (
	HandIDKey     string = "handID"
	TableIDKey    string = "tableID"
	PlayerIDKey   string = "playerID"
	StreetKey     string = "street"
	ActionKey     string = "action"
	AmountKey     string = "amount"
	MutationKey   string = "mutationType"
	SubjectKey    string = "subject"
	NextHandIDKey string = "nextHandID"
)

func colorLogSetting() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	v := colorLogSetting()
	return v == "1" || strings.ToLower(v) == "true"
}

// GetZeroLogger returns a console logger tagged with the given name.
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	output := zerolog.ConsoleWriter{Out: out, NoColor: !IsColorLoggingEnabled(), TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// ForHand returns a child logger that carries the hand and table ids.
func ForHand(logger zerolog.Logger, handID string, tableID string) zerolog.Logger {
	return logger.With().Str(HandIDKey, handID).Str(TableIDKey, tableID).Logger()
}
