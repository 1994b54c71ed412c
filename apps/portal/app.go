package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/screens"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/tui"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/loan"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/navigation"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/registration"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/session"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/api"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
)

var (
	errNoSession      = errors.New("no hay una sesión iniciada: ejecuta `orquesta login`")
	errSessionExpired = errors.New("la sesión expiró: ejecuta `orquesta login`")
)

// app holds the client-side services shared by the commands and the terminal portal.
type app struct {
	conf      *core.Config
	logger    core.Logger
	storage   local.Store
	bus       *events.Bus
	client    *api.Client
	sessions  *session.Store
	nav       *navigation.Context
	alerts    *alert.Service
	validator *core.Validator
	screens   *screens.Registry
}

func newApp(conf *core.Config, logger core.Logger, storage local.Store) *app {
	bus := events.NewBus()
	client := api.NewClient(conf, logger)
	sessions := session.NewStore(client, storage, logger)
	client.Authorize(sessions, sessions.Expire)
	validator := core.NewValidator().Register(loan.InitValidators, registration.InitValidators)
	alerts := alert.New(bus)

	a := &app{
		conf:      conf,
		logger:    logger,
		storage:   storage,
		bus:       bus,
		client:    client,
		sessions:  sessions,
		nav:       navigation.New(sessions, storage, bus, logger),
		alerts:    alerts,
		validator: validator,
		screens: screens.New(client, crud.Deps{
			Alerts:    alerts,
			Validator: validator,
			Logger:    logger,
			Bus:       bus,
		}),
	}
	sessions.OnChange(func(sess session.Session, loggedIn bool) {
		detail := "logout"
		if loggedIn {
			detail = "login:" + string(sess.User.Role)
		}
		bus.Publish(events.Event{Source: events.Session, Detail: detail})
	})
	return a
}

// requireSession restores the persisted session and waits for the backend to accept it.
func (a *app) requireSession(ctx context.Context) (session.Session, error) {
	if sess, ok := a.sessions.Current(); ok {
		return sess, nil
	}
	restored, verified := a.sessions.Restore(ctx)
	if !restored {
		return session.Session{}, errNoSession
	}
	select {
	case <-verified:
	case <-ctx.Done():
		return session.Session{}, ctx.Err()
	}
	sess, ok := a.sessions.Current()
	if !ok {
		return session.Session{}, errSessionExpired
	}
	return sess, nil
}

func (a *app) tuiDeps() tui.Deps {
	return tui.Deps{
		Sessions: a.sessions,
		Nav:      a.nav,
		Alerts:   a.alerts,
		Bus:      a.bus,
		Screens:  a.screens,
		Client:   a.client,
		Logger:   a.logger,
	}
}

func (a *app) Close() {
	a.alerts.Close()
}
