package logsvc

import (
	"fmt"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
)

// Person is implemented by log args identifying the logged in user (eg. session.User).
type Person interface {
	RollbarPerson() (id, username, email string)
}

type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, debug: conf.Debug}
}

// Enable toggles reporting to Rollbar. The local log is always written.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close flushes pending Rollbar items.
func (l RollbarLogger) Close() {
	rollbar.Close()
}

// expected fmt: msg | error, map[string]interface{}, Person
func (l RollbarLogger) prepare(msg string, args []interface{}) (rbArgs, logArgs []interface{}) {
	var personSet bool
	rbArgs = make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	for _, arg := range args {
		if p, ok := arg.(Person); ok {
			if !personSet { // only one person per item
				rollbar.SetPerson(p.RollbarPerson())
				personSet = true
			}
			id, name, _ := p.RollbarPerson()
			logArgs = append(logArgs, fmt.Sprintf("user=%s(%s)", name, id))
			continue
		}
		rbArgs = append(rbArgs, arg)
		logArgs = append(logArgs, arg)
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return rbArgs, logArgs
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s %s", level, msg)
	for _, arg := range args {
		l.std.Printf("  %+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	rbArgs, logArgs := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.print("DEBUG", msg, logArgs)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, logArgs := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.print("INFO", msg, logArgs)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, logArgs := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.print("WARN", msg, logArgs)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, logArgs := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.print("ERROR", msg, logArgs)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, logArgs := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	l.print("FATAL", msg, logArgs)
	rollbar.Close()
	l.std.Fatal(msg)
}
