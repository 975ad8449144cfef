package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
)

func TestDashboard_LoadReportsWidgetErrors(t *testing.T) {
	a := &stubAnalytics{overviewErr: domain.ErrNetwork}
	data := NewDashboard(a, zerolog.Nop()).Load(context.Background())

	if data.Overview != nil {
		t.Fatalf("failed widget must be empty")
	}
	if data.Errors["overview"] != MsgNetwork {
		t.Fatalf("unexpected errors %v", data.Errors)
	}
	if len(data.Companies) != 1 || len(data.FrequentErrors) != 1 {
		t.Fatalf("other widgets must still load: %+v", data)
	}
}

func TestDashboard_SearchRequest(t *testing.T) {
	a := &stubAnalytics{result: domain.RequestSearchResult{Printer: domain.Printer{ID: 7, Name: "LaserJet"}}}
	d := NewDashboard(a, zerolog.Nop())
	ctx := context.Background()

	res, msg, err := d.SearchRequest(ctx, " REQ-42 ")
	if err != nil || msg != "" || res == nil || res.Printer.ID != 7 {
		t.Fatalf("unexpected result %+v %q %v", res, msg, err)
	}

	a.searchErr = domain.ErrNotFound
	res, msg, err = d.SearchRequest(ctx, "REQ-404")
	if err != nil || res != nil || msg != MsgNoResult {
		t.Fatalf("404 must read as no result: %+v %q %v", res, msg, err)
	}

	a.searchErr = &domain.RemoteError{Status: 500, Message: "Server Error"}
	_, msg, err = d.SearchRequest(ctx, "REQ-500")
	if err == nil || msg != "Server Error" {
		t.Fatalf("expected a hard failure, got %q %v", msg, err)
	}
}

func TestDashboard_Interventions(t *testing.T) {
	a := &stubAnalytics{}
	d := NewDashboard(a, zerolog.Nop())
	ctx := context.Background()
	for _, scope := range []string{ScopeAll, ScopePrinter, ScopeCompany, ScopeDepartment} {
		if _, err := d.Interventions(ctx, scope, 1); err != nil {
			t.Fatalf("%s: %v", scope, err)
		}
	}
	if len(a.scopes) != 4 || a.scopes[1] != ScopePrinter {
		t.Fatalf("unexpected dispatch %v", a.scopes)
	}
	if _, err := d.Interventions(ctx, "galaxy", 1); !errors.Is(err, ErrUnknownScope) {
		t.Fatalf("expected ErrUnknownScope, got %v", err)
	}
}

func TestDashboard_TrendsReportsWidgetErrors(t *testing.T) {
	a := &stubAnalytics{}
	d := NewDashboard(a, zerolog.Nop())
	ctx := context.Background()

	data := d.Trends(ctx)
	if len(data.ByType) != 1 || len(data.ByDepartment) != 1 || data.Errors != nil {
		t.Fatalf("unexpected trends %+v", data)
	}

	a.trendsErr = domain.ErrNetwork
	data = d.Trends(ctx)
	if len(data.ByType) != 1 {
		t.Fatalf("series must still load: %+v", data)
	}
	if data.ByDepartment != nil || data.Errors["by_department"] != MsgNetwork {
		t.Fatalf("unexpected trends %+v", data)
	}
}
