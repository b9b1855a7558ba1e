// budgetctl is a small command line client for the budgeting API. It
// keeps its session in the user's configuration directory, so logging in
// once is enough for subsequent commands.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/studentbudget/backend/pkg/client"
	"github.com/studentbudget/backend/pkg/currency"
	"github.com/studentbudget/backend/pkg/session"
)

const usage = `Usage: budgetctl <command> [flags]

Commands:
  register     Create an account and log in
  login        Log in with email and password
  logout       Drop the stored session
  whoami       Show the logged-in user
  categories   List budget categories
  add          Record a transaction
  list         List transactions
  rm           Delete a transaction
  report       Show spending per category

Flags common to all commands:
  -api <url>   API base address (default from BUDGET_API_URL, else http://localhost:8000)
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing command")
	}

	command, args := args[0], args[1:]

	storage, err := session.NewFileStorage("budgetctl")
	if err != nil {
		return fmt.Errorf("locating session storage: %w", err)
	}

	ctx := context.Background()

	switch command {
	case "register":
		return register(ctx, args, stdin, stdout, stderr, storage)
	case "login":
		return login(ctx, args, stdin, stdout, stderr, storage)
	case "logout":
		return logout(ctx, stdout, storage)
	case "whoami":
		return whoami(ctx, args, stdout, stderr, storage)
	case "categories":
		return categories(ctx, args, stdout, stderr, storage)
	case "add":
		return addTransaction(ctx, args, stdout, stderr, storage)
	case "list":
		return listTransactions(ctx, args, stdout, stderr, storage)
	case "rm":
		return removeTransaction(ctx, args, stdout, stderr, storage)
	case "report":
		return report(ctx, args, stdout, stderr, storage)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// newFlagSet returns a FlagSet with the flags every command shares.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaultURL := os.Getenv("BUDGET_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8000"
	}

	apiURL := fs.String("api", defaultURL, "API base address")
	return fs, apiURL
}

// connect restores the stored session and requires it to be logged in.
func connect(ctx context.Context, apiURL string, storage session.Storage) (*client.Client, *session.Store, error) {
	api := client.New(apiURL)
	store := session.New(api, storage)

	if err := store.Init(ctx); err != nil {
		return nil, nil, err
	}

	if store.State() != session.StateAuthenticated {
		return nil, nil, fmt.Errorf("not logged in, run 'budgetctl login' first")
	}

	return api, store, nil
}

func register(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("register", stderr)
	email := fs.String("email", "", "Email address")
	firstName := fs.String("first-name", "", "First name (optional)")
	lastName := fs.String("last-name", "", "Last name (optional)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("missing required flag: email")
	}

	password, err := promptPassword(stdin, stdout)
	if err != nil {
		return err
	}

	data := client.RegisterData{Email: *email, Password: password}
	if *firstName != "" {
		data.FirstName = firstName
	}
	if *lastName != "" {
		data.LastName = lastName
	}

	store := session.New(client.New(*apiURL), storage)
	if err := store.Init(ctx); err != nil {
		return err
	}
	if err := store.Register(ctx, data); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Registered and logged in as %s\n", store.User().Email)
	return nil
}

func login(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("login", stderr)
	email := fs.String("email", "", "Email address")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("missing required flag: email")
	}

	password, err := promptPassword(stdin, stdout)
	if err != nil {
		return err
	}

	store := session.New(client.New(*apiURL), storage)
	if err := store.Init(ctx); err != nil {
		return err
	}
	if err := store.Login(ctx, *email, password); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Logged in as %s\n", store.User().Email)
	return nil
}

func logout(_ context.Context, stdout io.Writer, storage session.Storage) error {
	store := session.New(client.New("http://localhost"), storage)
	if err := store.Logout(); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Logged out")
	return nil
}

func whoami(ctx context.Context, args []string, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("whoami", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, store, err := connect(ctx, *apiURL, storage)
	if err != nil {
		return err
	}

	user := store.User()
	name := strings.TrimSpace(deref(user.FirstName) + " " + deref(user.LastName))
	if name == "" {
		fmt.Fprintln(stdout, user.Email)
	} else {
		fmt.Fprintf(stdout, "%s <%s>\n", name, user.Email)
	}
	return nil
}

func categories(ctx context.Context, args []string, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("categories", stderr)
	categoryType := fs.String("type", "", "Filter by type: income or expense")

	if err := fs.Parse(args); err != nil {
		return err
	}

	api, _, err := connect(ctx, *apiURL, storage)
	if err != nil {
		return err
	}

	list, err := api.Categories(ctx, *categoryType)
	if err != nil {
		return err
	}

	for _, category := range list {
		limit := ""
		if category.MonthlyLimitCents != nil {
			limit = "  limit " + currency.Format(*category.MonthlyLimitCents)
		}
		fmt.Fprintf(stdout, "%s  %-8s %s%s\n", category.ID, category.Type, category.Name, limit)
	}
	return nil
}

func addTransaction(ctx context.Context, args []string, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("add", stderr)
	txType := fs.String("type", "expense", "Transaction type: income or expense")
	amount := fs.String("amount", "", "Amount in dollars, e.g. 12.99")
	categoryID := fs.String("category", "", "Category ID (optional)")
	date := fs.String("date", "", "Date as YYYY-MM-DD (default today)")
	description := fs.String("description", "", "Description (optional)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *amount == "" {
		return fmt.Errorf("missing required flag: amount")
	}

	cents, err := currency.DollarsToCents(*amount)
	if err != nil {
		return err
	}

	data := client.TransactionData{Type: *txType, AmountCents: cents}

	if *categoryID != "" {
		id, err := uuid.Parse(*categoryID)
		if err != nil {
			return fmt.Errorf("invalid category ID: %w", err)
		}
		data.CategoryID = &id
	}

	if *date != "" {
		occurred, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid date, expected YYYY-MM-DD: %w", err)
		}
		data.OccurredAt = occurred
	}

	if *description != "" {
		data.Description = description
	}

	api, _, err := connect(ctx, *apiURL, storage)
	if err != nil {
		return err
	}

	created, err := api.CreateTransaction(ctx, data)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Recorded %s %s (%s)\n", created.Type, currency.Format(created.AmountCents), created.ID)
	return nil
}

func listTransactions(ctx context.Context, args []string, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("list", stderr)
	txType := fs.String("type", "", "Filter by type: income or expense")
	search := fs.String("search", "", "Description contains this text")
	limit := fs.Int("limit", 20, "Number of transactions to show")
	page := fs.Int("page", 1, "Page number")

	if err := fs.Parse(args); err != nil {
		return err
	}

	api, _, err := connect(ctx, *apiURL, storage)
	if err != nil {
		return err
	}

	list, err := api.Transactions(ctx, client.TransactionFilters{
		Type:   *txType,
		Search: *search,
		Limit:  *limit,
		Page:   *page,
	})
	if err != nil {
		return err
	}

	for _, tx := range list.Items {
		sign := "-"
		if tx.Type == "income" {
			sign = "+"
		}
		fmt.Fprintf(stdout, "%s  %s%-12s %s\n",
			tx.OccurredAt.Format("2006-01-02"), sign, currency.Format(tx.AmountCents), deref(tx.Description))
	}

	fmt.Fprintf(stdout, "Page %d of %d (%d transactions)\n", list.Page, list.TotalPages, list.Total)
	return nil
}

func removeTransaction(ctx context.Context, args []string, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("rm", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: budgetctl rm <transaction-id>")
	}

	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid transaction ID: %w", err)
	}

	api, _, err := connect(ctx, *apiURL, storage)
	if err != nil {
		return err
	}

	if err := api.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Deleted %s\n", id)
	return nil
}

func report(ctx context.Context, args []string, stdout, stderr io.Writer, storage session.Storage) error {
	fs, apiURL := newFlagSet("report", stderr)
	txType := fs.String("type", "expense", "Transaction type: income or expense")
	month := fs.String("month", "", "Month as YYYY-MM (default current month)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	start := time.Now().UTC()
	if *month != "" {
		parsed, err := time.Parse("2006-01", *month)
		if err != nil {
			return fmt.Errorf("invalid month, expected YYYY-MM: %w", err)
		}
		start = parsed
	}
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	api, _, err := connect(ctx, *apiURL, storage)
	if err != nil {
		return err
	}

	result, err := api.SpendingByCategory(ctx, client.AggregateParams{
		Type:      *txType,
		StartDate: &first,
		EndDate:   &last,
	})
	if err != nil {
		return err
	}

	var total int64
	for _, row := range result.Aggregates {
		name := "Uncategorized"
		if row.CategoryName != nil {
			name = *row.CategoryName
		}
		fmt.Fprintf(stdout, "%-24s %12s  (%d)\n", name, currency.Format(row.TotalCents), row.Count)
		total += row.TotalCents
	}

	fmt.Fprintf(stdout, "%-24s %12s\n", "Total", currency.Format(total))
	return nil
}

func promptPassword(stdin io.Reader, stdout io.Writer) (string, error) {
	fmt.Fprint(stdout, "Password: ")
	password, err := readPassword(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	// Fallback for pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
