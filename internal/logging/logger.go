package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/gymbros/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	// ConsoleStderr sends the console stream to stderr instead of stdout,
	// for processes whose stdout is a protocol channel (stdio MCP).
	ConsoleStderr    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if params.SentryEnabled {
		setupSentry(params)
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	var console io.Writer = os.Stdout
	if params.ConsoleStderr {
		console = os.Stderr
	}

	if params.LogFileName == "" {
		logrus.SetOutput(console)
		logrus.Debugln("writing logs only to the console")
		return
	}

	fileWriter := newFileWriter(params.LogFileName)
	if params.LogToStdout {
		logrus.SetOutput(pkg.NewCombinedWriter(console, fileWriter))
		logrus.Debugln("writing logs to file and the console")
		return
	}
	logrus.SetOutput(fileWriter)
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}
	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry set up")
}

// newFileWriter returns a rotating writer; ".log" is appended when missing.
func newFileWriter(fileName string) *lumberjack.Logger {
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	if err := pkg.EnsureDir(filepath.Dir(fileName)); err != nil {
		logrus.Errorf("logs dir: %s", err)
	}
	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    20, // megabytes
		MaxBackups: 10,
		LocalTime:  false, // UTC
		Compress:   true,
	}
}

// GetLevel parses a level name, falling back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
