package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
)

// collection exposes a records.Table as GET/POST on / and PUT/DELETE on /:id.
// F is the create/update payload.
type collection[T any, F any] struct {
	name   string
	table  records.Table[T]
	build  func(form F, id int) T
	keep   func(form F, cur, next T) T                   // state kept across updates; nil keeps nothing
	check  func(c context.Context, form F, id int) error // cross-record checks before writing; id is 0 on create
	create func(c context.Context, form F) (T, error)    // overrides the default create
	remove func(c context.Context, id int) error         // overrides the default delete
}

func (col *collection[T, F]) register(g *echo.Group) *echo.Group {
	cg := g.Group("/" + col.name)
	cg.GET("", col.list)
	cg.POST("", col.createHandler)
	cg.PUT("/:id", col.updateHandler)
	cg.DELETE("/:id", col.deleteHandler)
	return cg
}

func (col *collection[T, F]) list(ctx echo.Context) error {
	recs, err := col.table.All(ctx.Request().Context())
	if err != nil {
		return errors.Wrapf(err, "querying %s", col.name)
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (col *collection[T, F]) createHandler(ctx echo.Context) error {
	var form F
	if err := bindAndValidate(ctx, &form, col.name); err != nil {
		return err
	}
	c := ctx.Request().Context()
	if col.check != nil {
		if err := col.check(c, form, 0); err != nil {
			return err
		}
	}

	var rec T
	var err error
	if col.create != nil {
		rec, err = col.create(c, form)
	} else {
		rec, err = col.table.Create(c, func(id int) (T, error) { return col.build(form, id), nil })
	}
	if err != nil {
		return errors.Wrapf(err, "creating %s", col.name)
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (col *collection[T, F]) updateHandler(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var form F
	if err = bindAndValidate(ctx, &form, col.name); err != nil {
		return err
	}
	c := ctx.Request().Context()
	if col.check != nil {
		if err = col.check(c, form, id); err != nil {
			return err
		}
	}

	rec, err := col.table.Update(c, id, func(cur T) (T, error) {
		next := col.build(form, id)
		if col.keep != nil {
			next = col.keep(form, cur, next)
		}
		return next, nil
	})
	if err != nil {
		return errors.Wrapf(err, "updating %s", col.name)
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (col *collection[T, F]) deleteHandler(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	c := ctx.Request().Context()
	if col.remove != nil {
		err = col.remove(c, id)
	} else {
		err = col.table.Delete(c, id)
	}
	if err != nil {
		return errors.Wrapf(err, "deleting %s", col.name)
	}
	return ctx.JSON(http.StatusOK, StatusResponse{Success: true})
}

// registerAction registers PATCH /:id/{name}: a state-only transition of a record with body B.
func registerAction[T any, B any](g *echo.Group, name string, table records.Table[T], apply func(rec T, body B) (T, error)) {
	g.PATCH("/:id/"+name, func(ctx echo.Context) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}
		var body B
		if err = bindAndValidate(ctx, &body, name); err != nil {
			return err
		}
		rec, err := table.Update(ctx.Request().Context(), id, func(rec T) (T, error) { return apply(rec, body) })
		if err != nil {
			return errors.Wrapf(err, "applying %s", name)
		}
		return ctx.JSON(http.StatusOK, rec)
	})
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errNotFound
	}
	return id, nil
}
