package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
)

// Factory hands out stores bound to a session.
type Factory struct {
	client *Client
}

var _ ports.StoreFactory = (*Factory)(nil)

func NewFactory(cl *Client) *Factory { return &Factory{client: cl} }

// For returns the store seen through sess.
func (f *Factory) For(sess ports.Session) ports.RemoteStore {
	return &Store{client: f.client, sess: sess}
}

type loginResponse struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (f *Factory) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	raw, err := f.client.do(ctx, nil, call{
		resource: "auth",
		method:   http.MethodPost,
		path:     "login",
		body:     map[string]string{"email": email, "password": password},
	})
	if errors.Is(err, domain.ErrUnauthorized) {
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return ports.LoginResult{}, err
	}
	resp, err := decodeOne[loginResponse](raw)
	if err != nil {
		return ports.LoginResult{}, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return ports.LoginResult{}, malformed("login answer carries no token")
	}
	return ports.LoginResult{Token: token, User: resp.User}, nil
}

// Store is the remote store seen through one session.
type Store struct {
	client *Client
	sess   ports.Session
}

var _ ports.RemoteStore = (*Store)(nil)

func (s *Store) Companies() ports.Collection[domain.Company] {
	return newResource[domain.Company](s.client, s.sess, "companies", "companies")
}

func (s *Store) Departments() ports.Collection[domain.Department] {
	return newResource[domain.Department](s.client, s.sess, "departments", "departments")
}

func (s *Store) Brands() ports.PagedCollection[domain.Brand] {
	return brands{newResource[domain.Brand](s.client, s.sess, "brands", "brands")}
}

func (s *Store) PrinterModels() ports.Collection[domain.PrinterModel] {
	return newResource[domain.PrinterModel](s.client, s.sess, "printer-models", "printer-models")
}

func (s *Store) Printers() ports.PrinterStore {
	return printers{newResource[domain.Printer](s.client, s.sess, "printers", "printers")}
}

func (s *Store) Materiel() ports.Collection[domain.Materiel] {
	return newResource[domain.Materiel](s.client, s.sess, "materiel", "materiel")
}

func (s *Store) Users() ports.Collection[domain.User] {
	return newResource[domain.User](s.client, s.sess, "users", "users")
}

func (s *Store) PrinterMovements() ports.MovementLog {
	return newResource[domain.PrinterMovement](s.client, s.sess, "printer-movements", "printer-movements")
}

func (s *Store) Analytics() ports.Analytics {
	return analytics{client: s.client, sess: s.sess}
}

type brands struct {
	resource[domain.Brand]
}

// ListPage asks the store for one page of brands.
func (b brands) ListPage(ctx context.Context, q domain.PageQuery) (domain.PageResult[domain.Brand], error) {
	raw, err := b.client.do(ctx, b.sess, call{
		resource: b.name,
		method:   http.MethodGet,
		path:     b.path,
		query:    pageValues(q),
	})
	if err != nil {
		return domain.PageResult[domain.Brand]{}, err
	}
	return decodePage[domain.Brand](raw)
}

// pageValues encodes a page query; filters left to All are not sent.
func pageValues(q domain.PageQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		v.Set("search_term", term)
	}
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if val := q.Filters[k]; val != "" && val != listview.All {
			v.Set(k, val)
		}
	}
	return v
}

type printers struct {
	resource[domain.Printer]
}

// Move calls the dedicated relocation endpoint.
func (p printers) Move(ctx context.Context, printerID int64, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	raw, err := p.client.do(ctx, p.sess, call{
		resource: p.name,
		method:   http.MethodPut,
		path:     p.itemPath(printerID) + "/move",
		body:     in,
	})
	if err != nil {
		return domain.PrinterMovement{}, err
	}
	if empty(raw) {
		return domain.PrinterMovement{PrinterID: printerID, NewDepartmentID: in.DepartmentID, Notes: in.Notes}, nil
	}
	mv, err := decodeOne[domain.PrinterMovement](raw)
	if err != nil {
		return domain.PrinterMovement{}, fmt.Errorf("move printer %d: %w", printerID, err)
	}
	return mv, nil
}
