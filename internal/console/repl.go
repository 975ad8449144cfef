package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/printmanage/console/internal/core/service"
)

var errExit = errors.New("exit")

const helpText = `Commands:
  login [email]              sign in
  logout                     sign out
  open <page>                companies, departments, brands, printer-models,
                             printers, materiel, users, movements
  list                       reload and show the open page
  search [term]              search the open page (no term clears it)
  filter <key> [value]       set a filter (no value means all)
  options [...]              filters of the page, or: companies,
                             departments <company>, printers <department>
  page <n> | next | prev     move through pages
  per-page <n>               change the page size
  new | edit <id>            fill the form of a record
  delete <id>                delete a record after confirmation
  move <printer> <department> [notes...]
  dashboard                  analytics overview
  request <number>           find the printer of an intervention request
  help | exit`

// Run reads commands until EOF or exit. Errors are printed and the loop
// goes on.
func (a *App) Run(ctx context.Context) {
	a.ctx = ctx
	defer a.closePage()
	fmt.Fprintln(a.out(), "PrintManage console. Type help for commands.")
	for {
		line, err := a.prompt.line(fmt.Sprintf("pm %s> ", a.status()))
		if err != nil {
			if !errors.Is(err, io.EOF) {
				a.log.Error().Err(err).Msg("read input")
			}
			return
		}
		if err := a.Exec(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(a.out(), "Bye!")
				return
			}
			fmt.Fprintln(a.out(), "Error: "+message(err))
		}
	}
}

// Exec runs one command line.
func (a *App) Exec(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "h", "?":
		fmt.Fprintln(a.out(), helpText)
		return nil
	case "exit", "quit", "q":
		return errExit
	case "login":
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return a.Login(ctx, email)
	case "logout":
		return a.Logout(ctx)
	case "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: open <%s>", strings.Join(pageNames(), "|"))
		}
		return a.Open(ctx, args[0])
	case "options":
		return a.Options(ctx, args)
	case "dashboard":
		return a.Dashboard(ctx)
	case "request":
		if len(args) != 1 {
			return errors.New("usage: request <number>")
		}
		return a.Request(ctx, args[0])
	case "move":
		if len(args) < 2 {
			return errors.New("usage: move <printer> <department> [notes...]")
		}
		printerID, err := parseID(args[0])
		if err != nil {
			return err
		}
		departmentID, err := parseID(args[1])
		if err != nil {
			return err
		}
		return a.Move(ctx, printerID, departmentID, strings.Join(args[2:], " "))
	}

	v, err := a.current()
	if err != nil {
		if cmd == "list" || isPageCommand(cmd) {
			return err
		}
		return fmt.Errorf("unknown command %q, type help", cmd)
	}

	switch cmd {
	case "list", "l":
		_ = v.load(ctx)
	case "search":
		err = v.search(ctx, strings.Join(args, " "))
	case "filter":
		if len(args) == 0 {
			return errors.New("usage: filter <key> [value]")
		}
		value := ""
		if len(args) > 1 {
			value = args[1]
		}
		err = v.filter(ctx, args[0], value)
	case "page":
		if len(args) != 1 {
			return errors.New("usage: page <n>")
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		err = v.setPage(ctx, n)
	case "next", "n":
		err = v.next(ctx)
	case "prev", "p":
		err = v.prev(ctx)
	case "per-page":
		if len(args) != 1 {
			return fmt.Errorf("usage: per-page <%s>", joinInts(v.perPageOptions()))
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return fmt.Errorf("invalid page size %q", args[0])
		}
		err = v.perPage(ctx, n)
	case "new":
		err = v.create(ctx, a.prompt)
	case "edit", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", cmd)
		}
		id, idErr := parseID(args[0])
		if idErr != nil {
			return idErr
		}
		if cmd == "edit" {
			err = v.edit(ctx, id, a.prompt)
		} else {
			err = v.remove(ctx, id, a.prompt)
		}
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	if errors.Is(err, errFormRejected) {
		err = nil
	}
	if err != nil {
		return err
	}
	v.render(a.out())
	return nil
}

func isPageCommand(cmd string) bool {
	switch cmd {
	case "l", "search", "filter", "page", "next", "n", "prev", "p", "per-page", "new", "edit", "delete":
		return true
	}
	return false
}

// message is the text shown for a failed command.
func message(err error) string {
	switch {
	case errors.Is(err, errNotSignedIn), errors.Is(err, errNoPage):
		return err.Error()
	case errors.Is(err, service.ErrReadOnly):
		return "this page is read-only"
	}
	return service.Describe(err)
}
