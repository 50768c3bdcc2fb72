// Package console is a line-oriented terminal front end for the calculator
// and the customer ledger.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/phenrril/calcledger/internal/calculator"
	"github.com/phenrril/calcledger/internal/domain"
	"github.com/phenrril/calcledger/internal/usecase"
)

var errQuit = errors.New("quit")

const help = `calculator:  keys separated by spaces, e.g. "12.5 * 4 =", "c", "sqrt", "sq", "log"
  commit [description]          record the display as a transaction
  tx                            last 100 transactions
customers:
  customers                     list customers
  customer add NAME | PHONE | EMAIL | ADDRESS
  customer show ID
  customer update ID NAME | PHONE | EMAIL | ADDRESS
  customer delete ID
  customer credit ID AMOUNT [description]
  customer debit ID AMOUNT [description]
  customer tx ID
  customer balance ID
  help | quit`

type Session struct {
	in     io.Reader
	out    io.Writer
	calc   *usecase.CalculatorUC
	ledger *usecase.LedgerUC
	state  calculator.State

	display *color.Color
	ok      *color.Color
	fail    *color.Color
	dim     *color.Color
}

func New(in io.Reader, out io.Writer, calc *usecase.CalculatorUC, ledger *usecase.LedgerUC) *Session {
	return &Session{
		in:      in,
		out:     out,
		calc:    calc,
		ledger:  ledger,
		state:   calculator.New(),
		display: color.New(color.FgCyan, color.Bold),
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}
}

func (s *Session) DisableColor() {
	for _, c := range []*color.Color{s.display, s.ok, s.fail, s.dim} {
		c.DisableColor()
	}
}

func (s *Session) State() calculator.State { return s.state }

// Run reads commands until EOF, quit or ctx is done. Command errors are
// printed and the loop continues. Cancelling ctx returns ctx.Err() even while
// a read is blocked; the reader goroutine exits once that read returns.
func (s *Session) Run(ctx context.Context) error {
	s.dim.Fprintln(s.out, `calcledger - type "help" for commands`)
	s.printDisplay()

	stop := make(chan struct{})
	defer close(stop)
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			err := s.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				s.fail.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

// Exec runs one command line.
func (s *Session) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, help)
		return nil
	case "commit":
		return s.commit(ctx, rest)
	case "tx", "transactions":
		return s.listTransactions(ctx)
	case "customers":
		return s.listCustomers(ctx)
	case "customer":
		if len(fields) < 2 {
			return fmt.Errorf("%w: customer needs a subcommand", domain.ErrValidation)
		}
		sub := fields[1]
		args := strings.TrimSpace(strings.TrimPrefix(rest, sub))
		return s.customer(ctx, strings.ToLower(sub), args)
	}
	return s.keys(fields)
}

func (s *Session) keys(tokens []string) error {
	defer s.printDisplay()
	for _, tok := range tokens {
		if isNumber(tok) {
			for _, r := range tok {
				next, err := s.state.AppendDigit(r)
				if err != nil {
					return err
				}
				s.state = next
			}
			continue
		}
		next, err := s.state.Press(tok)
		if err != nil {
			return err
		}
		s.state = next
	}
	return nil
}

func isNumber(tok string) bool {
	if tok == "." {
		return false
	}
	for _, r := range tok {
		if r != '.' && (r < '0' || r > '9') {
			return false
		}
	}
	return tok != ""
}

func (s *Session) printDisplay() {
	st := s.state
	if st.Failed() {
		s.fail.Fprintf(s.out, "[%s]\n", st.Display())
		return
	}
	if st.Phase() == calculator.OperatorPending {
		op, _ := st.Operand()
		s.dim.Fprintf(s.out, "%s %s ", calculator.FormatNumber(op), st.Pending())
	}
	s.display.Fprintf(s.out, "[%s]\n", st.Display())
}

func (s *Session) commit(ctx context.Context, description string) error {
	next, rec, err := s.calc.Commit(ctx, s.state, description)
	if err != nil {
		return err
	}
	s.state = next
	s.ok.Fprintf(s.out, "recorded transaction #%d (%s)\n", rec.ID, calculator.FormatNumber(rec.Amount))
	s.printDisplay()
	return nil
}

func (s *Session) listTransactions(ctx context.Context) error {
	list, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.dim.Fprintln(s.out, "no transactions")
		return nil
	}
	for _, t := range list {
		fmt.Fprintf(s.out, "#%-5d %14s  %s  %s\n", t.ID, calculator.FormatNumber(t.Amount), stamp(t.CreatedAt), t.Description)
	}
	return nil
}

func (s *Session) listCustomers(ctx context.Context) error {
	list, err := s.ledger.ListCustomers(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.dim.Fprintln(s.out, "no customers")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(s.out, "#%-5d %-24s %-28s %s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	return nil
}

func (s *Session) customer(ctx context.Context, sub, args string) error {
	switch sub {
	case "add":
		in, err := parseCustomer(args)
		if err != nil {
			return err
		}
		id, err := s.ledger.AddCustomer(ctx, in)
		if err != nil {
			return err
		}
		s.ok.Fprintf(s.out, "added customer #%d\n", id)
		return nil
	case "update":
		id, rest, err := leadingID(args)
		if err != nil {
			return err
		}
		in, err := parseCustomer(rest)
		if err != nil {
			return err
		}
		if err := s.ledger.UpdateCustomer(ctx, id, in); err != nil {
			return err
		}
		s.ok.Fprintf(s.out, "updated customer #%d\n", id)
		return nil
	case "show":
		id, _, err := leadingID(args)
		if err != nil {
			return err
		}
		c, err := s.ledger.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "#%d %s\n  phone:   %s\n  email:   %s\n  address: %s\n  since:   %s\n",
			c.ID, c.Name, c.Phone, c.Email, c.Address, stamp(c.CreatedAt))
		return nil
	case "delete":
		id, _, err := leadingID(args)
		if err != nil {
			return err
		}
		if err := s.ledger.DeleteCustomer(ctx, id); err != nil {
			return err
		}
		s.ok.Fprintf(s.out, "deleted customer #%d\n", id)
		return nil
	case "credit", "debit":
		id, rest, err := leadingID(args)
		if err != nil {
			return err
		}
		amountStr, desc, _ := strings.Cut(rest, " ")
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return fmt.Errorf("%w: amount %q", domain.ErrValidation, amountStr)
		}
		txID, err := s.ledger.AddCustomerTransaction(ctx, id, amount, sub, strings.TrimSpace(desc))
		if err != nil {
			return err
		}
		s.ok.Fprintf(s.out, "recorded %s #%d for customer #%d\n", sub, txID, id)
		return nil
	case "tx":
		id, _, err := leadingID(args)
		if err != nil {
			return err
		}
		list, err := s.ledger.ListCustomerTransactions(ctx, id)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			s.dim.Fprintln(s.out, "no transactions")
			return nil
		}
		for _, t := range list {
			fmt.Fprintf(s.out, "#%-5d %-6s %14s  %s  %s\n", t.ID, t.Kind, calculator.FormatNumber(t.Amount), stamp(t.CreatedAt), t.Description)
		}
		return nil
	case "balance":
		id, _, err := leadingID(args)
		if err != nil {
			return err
		}
		b, err := s.ledger.CustomerBalance(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "customer #%d: credit %s, debit %s, net %s (%d entries)\n",
			id, calculator.FormatNumber(b.Credit), calculator.FormatNumber(b.Debit), calculator.FormatNumber(b.Net()), b.Entries)
		return nil
	}
	return fmt.Errorf("%w: unknown customer command %q", domain.ErrValidation, sub)
}

func leadingID(args string) (int64, string, error) {
	head, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	id, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: customer id %q", domain.ErrValidation, head)
	}
	return id, strings.TrimSpace(rest), nil
}

// parseCustomer reads "name | phone | email | address". Missing trailing
// fields are empty.
func parseCustomer(args string) (usecase.CustomerInput, error) {
	parts := strings.Split(args, "|")
	if len(parts) > 4 {
		return usecase.CustomerInput{}, fmt.Errorf("%w: want at most 4 fields separated by |", domain.ErrValidation)
	}
	f := make([]string, 4)
	for i, p := range parts {
		f[i] = strings.TrimSpace(p)
	}
	return usecase.CustomerInput{Name: f[0], Phone: f[1], Email: f[2], Address: f[3]}, nil
}

func stamp(t time.Time) string { return t.Local().Format("2006-01-02 15:04:05") }
