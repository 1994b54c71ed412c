package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

// Resource is an admin entity collection under /admin/{name}.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds the collection /admin/{name}, eg. NewResource[student.Student](c, "estudiantes").
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{client: c, path: "/admin/" + name}
}

var _ crud.Collection[struct{}] = (*Resource[struct{}])(nil)

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var recs []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Resource[T]) Create(ctx context.Context, form interface{}) error {
	return r.client.Do(ctx, http.MethodPost, r.path, form, nil)
}

func (r *Resource[T]) Update(ctx context.Context, id int, form interface{}) error {
	return r.client.Do(ctx, http.MethodPut, r.itemPath(id), form, nil)
}

func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

// Patch applies a state-only transition: PATCH /admin/{name}/{id}/{action}.
func (r *Resource[T]) Patch(ctx context.Context, id int, action string, body interface{}) error {
	return r.client.Do(ctx, http.MethodPatch, r.itemPath(id)+"/"+action, body, nil)
}

func (r *Resource[T]) itemPath(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}
