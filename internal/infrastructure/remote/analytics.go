package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

// analytics reads the dashboard namespace.
type analytics struct {
	client *Client
	sess   ports.Session
}

func getList[T any](ctx context.Context, a analytics, path string) ([]T, error) {
	raw, err := a.client.do(ctx, a.sess, call{resource: "analytics", method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func scoped(kind string, id int64) string {
	return "analytics/" + kind + "/" + strconv.FormatInt(id, 10) + "/interventions"
}

func (a analytics) Overview(ctx context.Context) (domain.Overview, error) {
	raw, err := a.client.do(ctx, a.sess, call{resource: "analytics", method: http.MethodGet, path: "analytics/overview"})
	if err != nil {
		return domain.Overview{}, err
	}
	return decodeOne[domain.Overview](raw)
}

func (a analytics) Companies(ctx context.Context) ([]domain.CompanyStats, error) {
	return getList[domain.CompanyStats](ctx, a, "analytics/companies")
}

func (a analytics) FrequentErrors(ctx context.Context) ([]domain.FrequentError, error) {
	return getList[domain.FrequentError](ctx, a, "analytics/frequent-errors")
}

func (a analytics) PrintersAttention(ctx context.Context) ([]domain.PrinterAttention, error) {
	return getList[domain.PrinterAttention](ctx, a, "analytics/printers-attention")
}

func (a analytics) InterventionsByTypeOverTime(ctx context.Context) ([]domain.InterventionPoint, error) {
	return getList[domain.InterventionPoint](ctx, a, "analytics/interventions-by-type-over-time")
}

func (a analytics) DepartmentsWithInterventions(ctx context.Context) ([]domain.DepartmentInterventions, error) {
	return getList[domain.DepartmentInterventions](ctx, a, "analytics/departments-with-interventions")
}

func (a analytics) AllInterventions(ctx context.Context) ([]domain.Intervention, error) {
	return getList[domain.Intervention](ctx, a, "analytics/all-interventions")
}

func (a analytics) PrinterInterventions(ctx context.Context, printerID int64) ([]domain.Intervention, error) {
	return getList[domain.Intervention](ctx, a, scoped("printers", printerID))
}

func (a analytics) CompanyInterventions(ctx context.Context, companyID int64) ([]domain.Intervention, error) {
	return getList[domain.Intervention](ctx, a, scoped("companies", companyID))
}

func (a analytics) DepartmentInterventions(ctx context.Context, departmentID int64) ([]domain.Intervention, error) {
	return getList[domain.Intervention](ctx, a, scoped("departments", departmentID))
}

func (a analytics) SearchByRequestNumber(ctx context.Context, requestNumber string) (domain.RequestSearchResult, error) {
	raw, err := a.client.do(ctx, a.sess, call{
		resource: "analytics",
		method:   http.MethodGet,
		path:     "analytics/printers/search",
		query:    url.Values{"request_number": {requestNumber}},
	})
	if err != nil {
		return domain.RequestSearchResult{}, err
	}
	return decodeOne[domain.RequestSearchResult](raw)
}
