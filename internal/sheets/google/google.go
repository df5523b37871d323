package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"financeiro/internal/core"
	ports "financeiro/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultTabName is the base name of the per-year report tabs; the year is
// prefixed automatically ("2026 Relatorio").
const DefaultTabName = "Relatorio"

var header = []any{"Mes", "Receitas", "Contas", "Pagas", "Pendentes", "Saldo", "Resultado"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	tabBase       string
}

// Ensure interface conformance
var _ ports.ReportWriter = (*Client)(nil)

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID string
	// CredentialsJSON takes precedence over CredentialsFile. When both are
	// empty GOOGLE_APPLICATION_CREDENTIALS is used.
	CredentialsJSON string
	CredentialsFile string
	TabName         string
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.TabName), nil
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gsheet.Service, spreadsheetID, tabName string) *Client {
	tabName = strings.TrimSpace(tabName)
	if tabName == "" {
		tabName = DefaultTabName
	}
	return &Client{svc: svc, spreadsheetID: strings.TrimSpace(spreadsheetID), tabBase: tabName}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(inline))
		credentialsJSON = []byte(inline)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", file, "size", len(b))
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteYearReport overwrites the year's tab with a header, one row per
// month and the yearly totals. The tab is created on first use.
func (c *Client) WriteYearReport(ctx context.Context, r core.YearReport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	tab := yearPrefixedName(c.tabBase, r.Year)
	if err := c.ensureTab(ctx, tab); err != nil {
		return err
	}

	rows := reportRows(r)
	rng := fmt.Sprintf("'%s'!A1:%s%d", tab, columnName(len(header)), len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) ensureTab(ctx context.Context, tab string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: tab}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", tab, err)
	}
	slog.InfoContext(ctx, "Created report tab", "tab", tab)
	return nil
}

// reportRows lays out r as sheet rows: header, months, total, average.
func reportRows(r core.YearReport) [][]any {
	rows := make([][]any, 0, len(r.Months)+3)
	rows = append(rows, header)
	for _, m := range r.Months {
		rows = append(rows, []any{
			m.Name, m.IncomeTotal, m.BillsTotal, m.PaidTotal, m.PendingTotal, m.Net, m.Outcome.CardLabel(),
		})
	}
	rows = append(rows,
		[]any{"Total", r.TotalIncome, r.TotalExpenses, "", "", r.Net, r.Outcome.PerformanceLabel()},
		[]any{"Media mensal", "", "", "", "", r.AvgMonthlyNet, strconv.Itoa(r.ActiveMonths) + " meses"},
	)
	return rows
}

// columnName converts a 1-based column index to its A1 letters.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
