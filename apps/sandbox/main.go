// Command sandbox runs the development REST backend the portal talks to.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	echoapi "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/sandbox/echo"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/registration"
	logsvc "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/logger"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/database"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/inmem"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SANDBOX : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := setUpDB(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer closeDB()

	if conf.Sandbox.Seed {
		if err = records.Seed(ctx, db, logger); err != nil {
			logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
		}
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{Address: conf.Sandbox.Addr},
		&echoapi.Deps{
			Conf:      conf,
			DB:        db,
			Validator: core.NewValidator().Register(loan.InitValidators, registration.InitValidators),
			Logger:    logger,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)
		}

	case <-ctx.Done():
		logger.Info("Start shutdown...")

		// give outstanding requests a deadline for completion
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Stop(sctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

// setUpDB returns the Postgres store when a database URL is configured, the in-memory one otherwise.
func setUpDB(ctx context.Context, conf *core.Config) (*records.DB, func(), error) {
	if conf.Sandbox.DatabaseURL == "" {
		return inmem.NewDB(), func() {}, nil
	}

	sqlDB, err := database.Open(ctx, conf.Sandbox.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err = database.Migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return database.NewDB(sqlDB), closer(sqlDB), nil
}

func closer(db *sqlx.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}
}
