// Package testutil starts a seeded sandbox backend for client-side tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	echoapi "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/sandbox/echo"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/registration"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/inmem"
)

// NewValidator returns the validator with every package validation registered.
func NewValidator() *core.Validator {
	return core.NewValidator().Register(loan.InitValidators, registration.InitValidators)
}

// Config returns a test configuration; its storage dir is a fresh temp dir.
func Config(t *testing.T) *core.Config {
	return &core.Config{
		AppName:  "Orquesta",
		Env:      "TEST",
		Build:    "test",
		TestMode: true,
		Storage:  core.StorageConfig{Dir: t.TempDir()},
		Sandbox: core.SandboxConfig{
			SecretKey:          "test-secret",
			JWTExpirationDelta: time.Hour,
			LoginBurst:         5,
		},
	}
}

// StartSandbox serves a freshly seeded sandbox API for the duration of the test. The
// returned configuration points its API base URL at it.
func StartSandbox(t *testing.T) (*core.Config, *records.DB) {
	t.Helper()
	conf := Config(t)

	db := inmem.NewDB()
	if err := records.Seed(context.Background(), db, core.NopLogger()); err != nil {
		t.Fatalf("StartSandbox(): seeding: %v", err)
	}

	srv := httptest.NewServer(echoapi.NewServer(
		&echoapi.Options{DisableReqLogs: true},
		&echoapi.Deps{
			Conf:      conf,
			DB:        db,
			Validator: NewValidator(),
			Logger:    core.NopLogger(),
		},
	))
	t.Cleanup(srv.Close)

	conf.API.BaseURL = srv.URL + "/api"
	return conf, db
}
