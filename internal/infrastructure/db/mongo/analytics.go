package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/printmanage/console/internal/core/domain"
)

// analytics only computes the overview counters; interventions are not
// recorded by this store.
type analytics struct {
	store *Store
}

func (a analytics) Overview(ctx context.Context) (domain.Overview, error) {
	if err := a.store.authorize(ctx); err != nil {
		return domain.Overview{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count := func(name string, filter bson.M) (int, error) {
		n, err := a.store.db.Collection(name).CountDocuments(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", name, err)
		}
		return int(n), nil
	}

	var (
		o   domain.Overview
		err error
	)
	if o.Companies, err = count(collectionCompanies, bson.M{}); err != nil {
		return o, err
	}
	if o.Departments, err = count(collectionDepartments, bson.M{}); err != nil {
		return o, err
	}
	if o.Printers, err = count(collectionPrinters, bson.M{}); err != nil {
		return o, err
	}
	if o.ActivePrinters, err = count(collectionPrinters, bson.M{"status": domain.StatusActive}); err != nil {
		return o, err
	}
	if o.Users, err = count(collectionUsers, bson.M{}); err != nil {
		return o, err
	}
	return o, nil
}

func (analytics) Companies(context.Context) ([]domain.CompanyStats, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) FrequentErrors(context.Context) ([]domain.FrequentError, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) PrintersAttention(context.Context) ([]domain.PrinterAttention, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) InterventionsByTypeOverTime(context.Context) ([]domain.InterventionPoint, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) DepartmentsWithInterventions(context.Context) ([]domain.DepartmentInterventions, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) AllInterventions(context.Context) ([]domain.Intervention, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) PrinterInterventions(context.Context, int64) ([]domain.Intervention, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) CompanyInterventions(context.Context, int64) ([]domain.Intervention, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) DepartmentInterventions(context.Context, int64) ([]domain.Intervention, error) {
	return nil, domain.ErrUnsupported
}

func (analytics) SearchByRequestNumber(context.Context, string) (domain.RequestSearchResult, error) {
	return domain.RequestSearchResult{}, domain.ErrUnsupported
}
