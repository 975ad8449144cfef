package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

// Intervention scopes accepted by Dashboard.Interventions.
const (
	ScopeAll        = "all"
	ScopePrinter    = "printer"
	ScopeCompany    = "company"
	ScopeDepartment = "department"
)

// ErrUnknownScope is returned for an intervention scope not listed above.
var ErrUnknownScope = errors.New("unknown intervention scope")

// Dashboard reads the analytics namespace of the store.
type Dashboard struct {
	analytics ports.Analytics
	log       zerolog.Logger
}

func NewDashboard(analytics ports.Analytics, log zerolog.Logger) *Dashboard {
	return &Dashboard{analytics: analytics, log: log}
}

// DashboardData holds every widget of the dashboard. A widget that failed
// to load is empty and has a message in Errors.
type DashboardData struct {
	Overview          *domain.Overview          `json:"overview"`
	Companies         []domain.CompanyStats     `json:"companies"`
	FrequentErrors    []domain.FrequentError    `json:"frequent_errors"`
	PrintersAttention []domain.PrinterAttention `json:"printers_attention"`
	Errors            map[string]string         `json:"errors,omitempty"`
}

// widgetErrors collects the failures of widgets loaded concurrently.
type widgetErrors struct {
	mu   sync.Mutex
	errs map[string]string
	log  zerolog.Logger
}

// fail records err for widget. It returns nil so the other widgets of the
// group keep loading.
func (w *widgetErrors) fail(widget string, err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.errs == nil {
		w.errs = map[string]string{}
	}
	w.errs[widget] = Describe(err)
	w.log.Warn().Err(err).Str("widget", widget).Msg("dashboard widget failed")
	return nil
}

// Load fetches the widgets concurrently.
func (d *Dashboard) Load(ctx context.Context) DashboardData {
	var (
		data DashboardData
		g    errgroup.Group
	)
	we := &widgetErrors{log: d.log}

	g.Go(func() error {
		o, err := d.analytics.Overview(ctx)
		if err != nil {
			return we.fail("overview", err)
		}
		data.Overview = &o
		return nil
	})
	g.Go(func() error {
		items, err := d.analytics.Companies(ctx)
		if err != nil {
			return we.fail("companies", err)
		}
		data.Companies = items
		return nil
	})
	g.Go(func() error {
		items, err := d.analytics.FrequentErrors(ctx)
		if err != nil {
			return we.fail("frequent_errors", err)
		}
		data.FrequentErrors = items
		return nil
	})
	g.Go(func() error {
		items, err := d.analytics.PrintersAttention(ctx)
		if err != nil {
			return we.fail("printers_attention", err)
		}
		data.PrintersAttention = items
		return nil
	})
	_ = g.Wait()
	data.Errors = we.errs
	return data
}

// SearchRequest looks a printer up by intervention request number. A
// not-found answer is not an error: the result is nil and the message is
// MsgNoResult.
func (d *Dashboard) SearchRequest(ctx context.Context, number string) (*domain.RequestSearchResult, string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, MsgNoResult, nil
	}
	res, err := d.analytics.SearchByRequestNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, MsgNoResult, nil
	}
	if err != nil {
		d.log.Warn().Err(err).Str("request_number", number).Msg("request search failed")
		return nil, Describe(err), err
	}
	return &res, "", nil
}

// Interventions lists the interventions of one scope. id is ignored for
// ScopeAll.
func (d *Dashboard) Interventions(ctx context.Context, scope string, id int64) ([]domain.Intervention, error) {
	switch scope {
	case ScopeAll, "":
		return d.analytics.AllInterventions(ctx)
	case ScopePrinter:
		return d.analytics.PrinterInterventions(ctx, id)
	case ScopeCompany:
		return d.analytics.CompanyInterventions(ctx, id)
	case ScopeDepartment:
		return d.analytics.DepartmentInterventions(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScope, scope)
}

// TrendsData holds the intervention series and the per-department counts.
// Like DashboardData, a failed widget is empty and has a message in Errors.
type TrendsData struct {
	ByType       []domain.InterventionPoint       `json:"by_type"`
	ByDepartment []domain.DepartmentInterventions `json:"by_department"`
	Errors       map[string]string                `json:"errors,omitempty"`
}

// Trends fetches both intervention widgets concurrently.
func (d *Dashboard) Trends(ctx context.Context) TrendsData {
	var (
		data TrendsData
		g    errgroup.Group
	)
	we := &widgetErrors{log: d.log}

	g.Go(func() error {
		points, err := d.analytics.InterventionsByTypeOverTime(ctx)
		if err != nil {
			return we.fail("by_type", err)
		}
		data.ByType = points
		return nil
	})
	g.Go(func() error {
		deps, err := d.analytics.DepartmentsWithInterventions(ctx)
		if err != nil {
			return we.fail("by_department", err)
		}
		data.ByDepartment = deps
		return nil
	})
	_ = g.Wait()
	data.Errors = we.errs
	return data
}
