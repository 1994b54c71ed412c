// Command orquesta is the administration client and academic portal of the orchestra.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	logsvc "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/logger"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
)

const logFileName = "orquesta.log"

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	if err := os.MkdirAll(conf.Storage.Dir, 0o700); err != nil {
		log.Fatalf("creating storage dir: %v", err)
	}

	// the terminal belongs to the portal: logs go to a file
	logFile, err := os.OpenFile(filepath.Join(conf.Storage.Dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("opening log file: %v", err)
	}
	defer logFile.Close()

	logger := logsvc.NewRollbarLogger(
		log.New(logFile, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Close()

	storage, err := local.NewFileStore(conf.Storage.Dir, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening local storage: %v", err), err)
	}
	defer storage.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(conf, logger, storage)
	defer a.Close()

	// =========================================================================
	// Start CLI

	cli := newCommandLine(a, os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
	if err := cli.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
