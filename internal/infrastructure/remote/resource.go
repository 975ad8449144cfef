package remote

import (
	"context"
	"net/http"
	"strconv"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

// resource is the CRUD surface of one REST collection.
type resource[T domain.Entity] struct {
	client *Client
	sess   ports.Session
	name   string
	path   string
}

func newResource[T domain.Entity](cl *Client, sess ports.Session, name, path string) resource[T] {
	return resource[T]{client: cl, sess: sess, name: name, path: path}
}

func (r resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

func (r resource[T]) List(ctx context.Context) ([]T, error) {
	raw, err := r.client.do(ctx, r.sess, call{resource: r.name, method: http.MethodGet, path: r.path})
	if err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func (r resource[T]) Get(ctx context.Context, id int64) (T, error) {
	raw, err := r.client.do(ctx, r.sess, call{resource: r.name, method: http.MethodGet, path: r.itemPath(id)})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeOne[T](raw)
}

func (r resource[T]) Create(ctx context.Context, item T) (T, error) {
	raw, err := r.client.do(ctx, r.sess, call{resource: r.name, method: http.MethodPost, path: r.path, body: item})
	if err != nil {
		var zero T
		return zero, err
	}
	if empty(raw) {
		return item, nil
	}
	return decodeOne[T](raw)
}

func (r resource[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	raw, err := r.client.do(ctx, r.sess, call{resource: r.name, method: http.MethodPut, path: r.itemPath(id), body: item})
	if err != nil {
		var zero T
		return zero, err
	}
	// Some endpoints answer 204 on update.
	if empty(raw) {
		return item, nil
	}
	return decodeOne[T](raw)
}

func (r resource[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.client.do(ctx, r.sess, call{resource: r.name, method: http.MethodDelete, path: r.itemPath(id)})
	return err
}
