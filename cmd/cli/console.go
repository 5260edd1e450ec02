package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go-bankist/model"
	"go-bankist/service"

	"github.com/fatih/color"
)

var (
	depositColor    = color.New(color.FgGreen).SprintFunc()
	withdrawalColor = color.New(color.FgRed).SprintFunc()
	headerColor     = color.New(color.Bold).SprintFunc()
	noticeColor     = color.New(color.FgYellow).SprintFunc()
)

const helpText = `Commands:
  login [username]        log in (PIN is read without echo)
  logout                  end the session
  statement               show balance, summary and movements
  sort                    toggle sorting movements by value
  transfer <to> <amount>  send money to another account
  loan <amount>           request a loan
  close                   close the account (asks for username and PIN)
  timer                   show the remaining session time
  quit                    exit`

// console is the interactive terminal host.
type console struct {
	sessions   *service.SessionManager
	statements *service.StatementService
	// secret reads a line without echo. When nil, secrets are read from
	// the input like any other line.
	secret func() ([]byte, error)

	scanner   *bufio.Scanner
	mu        sync.Mutex
	out       io.Writer
	sessionID string
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) currentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *console) setSession(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

// onExpire runs on a scheduler goroutine.
func (c *console) onExpire(sessionID, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != sessionID {
		return
	}
	c.sessionID = ""
	fmt.Fprintf(c.out, "\n%s\n> ", noticeColor("Session expired. Log in to get started."))
}

// run reads commands until quit or end of input.
func (c *console) run(ctx context.Context, in io.Reader) {
	c.scanner = bufio.NewScanner(in)
	c.printf("Bankist. Type 'help' for commands.\n> ")
	for c.scanner.Scan() {
		fields := strings.Fields(c.scanner.Text())
		if len(fields) > 0 {
			if fields[0] == "quit" || fields[0] == "exit" {
				return
			}
			c.dispatch(ctx, fields)
		}
		c.printf("> ")
	}
}

func (c *console) dispatch(ctx context.Context, fields []string) {
	cmd, args := fields[0], fields[1:]
	if cmd == "help" {
		c.printf("%s\n", helpText)
		return
	}
	if cmd == "login" {
		c.login(ctx, args)
		return
	}

	id := c.currentID()
	if id == "" {
		c.printf("Log in to get started.\n")
		return
	}
	switch cmd {
	case "logout":
		c.sessions.Logout(id)
		c.setSession("")
		c.printf("Logged out.\n")
	case "statement", "s":
		c.showStatement(ctx, id)
	case "sort":
		if _, err := c.sessions.ToggleSort(id); err != nil {
			c.fail(err)
			return
		}
		c.showStatement(ctx, id)
	case "transfer":
		if len(args) != 2 {
			c.printf("Usage: transfer <to> <amount>\n")
			return
		}
		if err := c.sessions.Transfer(ctx, id, args[0], args[1]); err != nil {
			c.fail(err)
			return
		}
		c.printf("Transfer completed.\n")
		c.showStatement(ctx, id)
	case "loan":
		if len(args) != 1 {
			c.printf("Usage: loan <amount>\n")
			return
		}
		if err := c.sessions.RequestLoan(ctx, id, args[0]); err != nil {
			c.fail(err)
			return
		}
		c.printf("Loan approved. It will show up in your movements shortly.\n")
	case "close":
		c.closeAccount(ctx, id)
	case "timer":
		s, ok := c.sessions.Lookup(id)
		if !ok {
			c.fail(service.ErrNoSession)
			return
		}
		c.printf("You will be logged out in %s\n", s.TimerDisplay())
	default:
		c.printf("Unknown command %q. Type 'help' for commands.\n", cmd)
	}
}

func (c *console) prompt(label string) string {
	c.printf("%s", label)
	if !c.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

func (c *console) readPin(label string) (string, error) {
	if c.secret == nil {
		return c.prompt(label), nil
	}
	c.printf("%s", label)
	pin, err := c.secret()
	c.printf("\n")
	return strings.TrimSpace(string(pin)), err
}

func (c *console) login(ctx context.Context, args []string) {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		username = c.prompt("User: ")
	}
	pin, err := c.readPin("PIN: ")
	if err != nil {
		c.printf("Could not read PIN: %v\n", err)
		return
	}

	s, _, err := c.sessions.Login(username, pin)
	if err != nil {
		c.fail(err)
		return
	}
	c.setSession(s.ID)
	c.showStatement(ctx, s.ID)
}

func (c *console) closeAccount(ctx context.Context, id string) {
	username := c.prompt("Confirm user: ")
	pin, err := c.readPin("Confirm PIN: ")
	if err != nil {
		c.printf("Could not read PIN: %v\n", err)
		return
	}
	if err := c.sessions.CloseAccount(ctx, id, username, pin); err != nil {
		c.fail(err)
		return
	}
	c.setSession("")
	c.printf("Account closed. Log in to get started.\n")
}

func (c *console) fail(err error) {
	c.printf("%s\n", withdrawalColor(err.Error()))
}

func (c *console) showStatement(ctx context.Context, id string) {
	s, ok := c.sessions.Lookup(id)
	if !ok {
		c.fail(service.ErrNoSession)
		return
	}
	acc, err := c.sessions.Account(id)
	if err != nil {
		c.fail(err)
		return
	}
	st, err := c.statements.Statement(ctx, acc, s.SortByValue)
	if err != nil {
		c.fail(err)
		return
	}
	c.printf("%s", renderStatement(st, s.TimerDisplay()))
}

func renderStatement(st model.Statement, timer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerColor(st.Welcome))
	fmt.Fprintf(&b, "Current balance  %s   (as of %s)\n", headerColor(st.Balance), st.AsOf)
	if st.Sorted {
		b.WriteString("Movements, sorted by value:\n")
	} else {
		b.WriteString("Movements:\n")
	}
	for _, row := range st.Rows {
		label := fmt.Sprintf("%-14s", row.Label)
		if row.Type == model.Deposit {
			label = depositColor(label)
		} else {
			label = withdrawalColor(label)
		}
		fmt.Fprintf(&b, "  %s %-12s %16s\n", label, row.DateDisplay, row.AmountDisplay)
	}
	fmt.Fprintf(&b, "In %s  Out %s  Interest %s\n", st.Summary.In, st.Summary.Out, st.Summary.Interest)
	fmt.Fprintf(&b, "You will be logged out in %s\n", timer)
	return b.String()
}
