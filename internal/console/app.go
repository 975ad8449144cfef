// Package console is the interactive terminal front end. It keeps one
// signed-in session and one open page, the way a browser tab does.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/listview"
	"github.com/printmanage/console/internal/core/ports"
	"github.com/printmanage/console/internal/core/service"
	"github.com/printmanage/console/internal/session"
)

var (
	errNotSignedIn = errors.New("sign in first (login)")
	errNoPage      = errors.New("open a page first (open <page>)")
)

// Config tunes the pages opened by the console.
type Config struct {
	PerPage  int
	Debounce time.Duration
}

// App holds the console state between commands.
type App struct {
	stores   ports.StoreFactory
	auth     *service.AuthService
	sessions *session.Memory
	cfg      Config
	prompt   *prompter
	log      zerolog.Logger

	ctx  context.Context
	sess *session.Bound
	page view
}

// NewApp wires the console on stores. Sessions stay in memory for the
// life of the process.
func NewApp(stores ports.StoreFactory, cfg Config, in io.Reader, out io.Writer, log zerolog.Logger) *App {
	mem := session.NewMemory()
	return &App{
		stores:   stores,
		auth:     service.NewAuthService(stores, mem, "console", 0, log.With().Str("component", "auth").Logger()),
		sessions: mem,
		cfg:      cfg,
		prompt:   &prompter{in: bufio.NewReader(in), out: out},
		log:      log,
		ctx:      context.Background(),
	}
}

func (a *App) out() io.Writer { return a.prompt.out }

func (a *App) status() string {
	if a.sess == nil {
		return "signed out"
	}
	s := fmt.Sprintf("%s (%s)", a.sess.DisplayName(), a.sess.Role())
	if a.page != nil {
		s += " " + a.page.title()
	}
	return s
}

// store returns the store of the signed-in session. A session whose token
// was cleared by a 401 counts as signed out.
func (a *App) store() (ports.RemoteStore, error) {
	if a.sess == nil || a.sess.Token() == "" {
		return nil, errNotSignedIn
	}
	return a.stores.For(a.sess), nil
}

// Login asks for credentials and opens a session.
func (a *App) Login(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = a.prompt.line("Email: "); err != nil {
			return err
		}
	}
	password, err := a.prompt.password("Password: ")
	if err != nil {
		return err
	}
	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.closePage()
	a.sess = session.Bind(s, a.sessions)
	fmt.Fprintf(a.out(), "Welcome %s.\n", s.DisplayName)
	return nil
}

// Logout forgets the session and the open page.
func (a *App) Logout(ctx context.Context) error {
	if a.sess == nil {
		return errNotSignedIn
	}
	if err := a.auth.Logout(ctx, a.sess.ID()); err != nil {
		return err
	}
	a.closePage()
	a.sess = nil
	fmt.Fprintln(a.out(), "Signed out.")
	return nil
}

// Open loads a page and shows its first page of records.
func (a *App) Open(ctx context.Context, name string) error {
	entry, ok := findPage(name)
	if !ok {
		return fmt.Errorf("unknown page %q, one of: %s", name, strings.Join(pageNames(), ", "))
	}
	store, err := a.store()
	if err != nil {
		return err
	}
	if !slices.Contains(entry.roles, a.sess.Role()) {
		return domain.ErrForbidden
	}
	a.closePage()
	a.page = entry.build(a.ctx, a, store)
	// a failed load still opens the page; render shows the message
	_ = a.page.load(ctx)
	a.page.render(a.out())
	return nil
}

func (a *App) closePage() {
	if c, ok := a.page.(interface{ close() }); ok {
		c.close()
	}
	a.page = nil
}

func (a *App) current() (view, error) {
	if _, err := a.store(); err != nil {
		return nil, err
	}
	if a.page == nil {
		return nil, errNoPage
	}
	return a.page, nil
}

// Options lists the filters of the open page, or the cascading choices of
// the fleet: "options departments <company>" and "options printers
// <department>".
func (a *App) Options(ctx context.Context, args []string) error {
	if len(args) == 0 {
		v, err := a.current()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out(), "filters: %s\n", strings.Join(v.filterKeys(), ", "))
		fmt.Fprintf(a.out(), "per page: %s\n", joinInts(v.perPageOptions()))
		return nil
	}
	store, err := a.store()
	if err != nil {
		return err
	}
	parent := listview.All
	if len(args) > 1 {
		parent = args[1]
	}
	data := service.NewFleet(store, a.log).Load(ctx)
	tw := tabwriter.NewWriter(a.out(), 0, 4, 2, ' ', 0)
	defer tw.Flush()
	switch args[0] {
	case "companies":
		for _, c := range data.Companies {
			fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
		}
	case "departments":
		for _, d := range data.DepartmentOptions(parent) {
			fmt.Fprintf(tw, "%d\t%s\n", d.ID, d.Name)
		}
	case "printers":
		for _, p := range data.PrinterOptions(parent) {
			fmt.Fprintf(tw, "%d\t%s\n", p.ID, p.Name)
		}
	default:
		return fmt.Errorf("usage: options [companies | departments <company> | printers <department>]")
	}
	for _, resource := range sortedKeys(data.Errors) {
		fmt.Fprintf(tw, "! %s: %s\n", resource, data.Errors[resource])
	}
	return nil
}

// Move relocates a printer to another department.
func (a *App) Move(ctx context.Context, printerID, departmentID int64, notes string) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	mv, err := service.NewMover(store.Printers(), nil, a.log).MoveByID(ctx, printerID, ports.MovePrinterInput{DepartmentID: departmentID, Notes: notes})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out(), "Printer %d moved to department %d.\n", mv.PrinterID, mv.NewDepartmentID)
	if a.page != nil && a.page.title() == "printer movement" {
		_ = a.page.load(ctx)
	}
	return nil
}

// Dashboard prints the analytics widgets.
func (a *App) Dashboard(ctx context.Context) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	data := service.NewDashboard(store.Analytics(), a.log).Load(ctx)
	w := a.out()
	if o := data.Overview; o != nil {
		fmt.Fprintf(w, "Companies %d, departments %d, printers %d (%d active), users %d\n",
			o.Companies, o.Departments, o.Printers, o.ActivePrinters, o.Users)
		fmt.Fprintf(w, "Interventions: %d open of %d\n", o.OpenInterventions, o.TotalInterventions)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(data.FrequentErrors) > 0 {
		fmt.Fprintln(tw, "Error\tDescription\tCount")
		for _, e := range data.FrequentErrors {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Code, e.Description, e.Count)
		}
	}
	if len(data.PrintersAttention) > 0 {
		fmt.Fprintln(tw, "Printer\tCompany\tReason")
		for _, p := range data.PrintersAttention {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Company, p.Reason)
		}
	}
	_ = tw.Flush()
	for _, widget := range sortedKeys(data.Errors) {
		fmt.Fprintf(w, "! %s: %s\n", widget, data.Errors[widget])
	}
	return nil
}

// Request finds the printer of an intervention request number.
func (a *App) Request(ctx context.Context, number string) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	res, msg, err := service.NewDashboard(store.Analytics(), a.log).SearchRequest(ctx, number)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Fprintln(a.out(), msg)
		return nil
	}
	fmt.Fprintf(a.out(), "Printer %d %s (serial %s)\n", res.Printer.ID, res.Printer.Name, res.Printer.SerialNumber)
	if i := res.Intervention; i != nil {
		fmt.Fprintf(a.out(), "Intervention %s: %s, %s\n", i.RequestNumber, i.Type, i.Status)
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
