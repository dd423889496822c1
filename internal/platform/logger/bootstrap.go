package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// BootstrapLogger is used during startup, before configuration is loaded.
// It writes one line per call with args rendered as key=value pairs.
type BootstrapLogger struct {
	logger *log.Logger
}

func NewBootstrapLogger() *BootstrapLogger {
	return NewBootstrapLoggerWithWriter(os.Stderr)
}

func NewBootstrapLoggerWithWriter(w io.Writer) *BootstrapLogger {
	return &BootstrapLogger{
		logger: log.New(w, "[BOOTSTRAP] ", log.LstdFlags),
	}
}

func (b *BootstrapLogger) Debug(_ context.Context, msg string, args ...any) {
	b.print("DEBUG", msg, args)
}

func (b *BootstrapLogger) Info(_ context.Context, msg string, args ...any) {
	b.print("INFO", msg, args)
}

func (b *BootstrapLogger) Warn(_ context.Context, msg string, args ...any) {
	b.print("WARN", msg, args)
}

func (b *BootstrapLogger) Error(_ context.Context, msg string, args ...any) {
	b.print("ERROR", msg, args)
}

func (b *BootstrapLogger) print(level, msg string, args []any) {
	var sb strings.Builder
	sb.WriteString(level)
	sb.WriteString(" ")
	sb.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fmt.Fprintf(&sb, " !BADKEY=%v", args[i])
			break
		}
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	b.logger.Print(sb.String())
}

var _ Logger = (*BootstrapLogger)(nil)
