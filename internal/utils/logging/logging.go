// Package logging provides the program logger, backed by zerolog.
//
// The method set (I, S, W, E, D, P) mirrors how the rest of the program logs:
// short calls with printf-style formats, with debug output gated by a numeric level.
package logging

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"postgrab/internal/domain/consts"

	"github.com/rs/zerolog"
)

// Regular expression to match ANSI escape codes.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// LoggingConfig holds the settings used to build a ProgramLogger.
type LoggingConfig struct {
	Console     io.Writer
	LogFilePath string
	Level       int
	RunID       string
	Program     string
}

// ProgramLogger is the logger shared by the whole program.
type ProgramLogger struct {
	zl    zerolog.Logger
	file  *os.File
	Level int
}

// SetupLogging builds a ProgramLogger writing to the console and, if set, a log file.
func SetupLogging(c LoggingConfig) (*ProgramLogger, error) {
	if c.Console == nil {
		c.Console = os.Stdout
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:         c.Console,
		TimeFormat:  "15:04:05",
		FormatLevel: formatLevel,
	}}

	var f *os.File
	if c.LogFilePath != "" {
		var err error
		f, err = os.OpenFile(c.LogFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, consts.PermsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", c.LogFilePath, err)
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:         &ansiStripWriter{w: f},
			NoColor:     true,
			TimeFormat:  "2006-01-02 15:04:05",
			FormatLevel: formatLevel,
		})
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if c.Program != "" {
		ctx = ctx.Str("program", c.Program)
	}
	if c.RunID != "" {
		ctx = ctx.Str("run", c.RunID)
	}

	return &ProgramLogger{
		zl:    ctx.Logger(),
		file:  f,
		Level: c.Level,
	}, nil
}

// New returns a console-only logger writing to w.
func New(w io.Writer, level int) *ProgramLogger {
	return &ProgramLogger{
		zl: zerolog.New(zerolog.ConsoleWriter{
			Out:         w,
			NoColor:     true,
			FormatLevel: formatLevel,
			PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		}),
		Level: level,
	}
}

// Nop returns a logger which discards everything.
func Nop() *ProgramLogger {
	return &ProgramLogger{zl: zerolog.Nop(), Level: -1}
}

// Close closes the log file, if any.
func (p *ProgramLogger) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

// I logs an info message.
func (p *ProgramLogger) I(format string, args ...any) {
	p.zl.Info().Msg(sprintf(format, args...))
}

// S logs a success message.
func (p *ProgramLogger) S(format string, args ...any) {
	p.zl.Log().Str(zerolog.LevelFieldName, successLevel).Msg(sprintf(format, args...))
}

// W logs a warning.
func (p *ProgramLogger) W(format string, args ...any) {
	p.zl.Warn().Msg(sprintf(format, args...))
}

// E logs an error.
func (p *ProgramLogger) E(format string, args ...any) {
	p.zl.Error().Msg(sprintf(format, args...))
}

// D logs a debug message if l is within the configured debug level.
func (p *ProgramLogger) D(l int, format string, args ...any) {
	if l > p.Level {
		return
	}
	p.zl.Debug().Int("lvl", l).Msg(sprintf(format, args...))
}

// P logs a plain message with no level tag.
func (p *ProgramLogger) P(format string, args ...any) {
	p.zl.Log().Msg(sprintf(format, args...))
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// ansiStripWriter removes ANSI escape codes before writing to w.
type ansiStripWriter struct {
	w io.Writer
}

func (a *ansiStripWriter) Write(b []byte) (int, error) {
	if _, err := a.w.Write(ansiEscape.ReplaceAll(b, nil)); err != nil {
		return 0, err
	}
	return len(b), nil
}
