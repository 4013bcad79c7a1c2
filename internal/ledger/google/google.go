package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"gastos/internal/core"
	"gastos/internal/ledger"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const name = "sheets"

// Config selects the spreadsheet and the credentials used to reach it.
// Either service account credentials or an OAuth client plus token must be
// provided.
type Config struct {
	SpreadsheetID string
	// SheetName is the tab holding the ledger. Empty means the first tab.
	SheetName string

	ServiceAccountJSON string
	ServiceAccountFile string

	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

// Client is the remote ledger store. It is connected once per process and
// reused; row data is never cached.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetTitle    string
	sheetID       int64

	// serializes read-then-write sequences (delete bounds check, initialize)
	mu sync.Mutex
}

var _ ledger.Store = (*Client)(nil)

// Connect builds the Sheets service and resolves the target tab. Errors
// here mean the store is unavailable for the whole process.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return open(ctx, svc, cfg.SpreadsheetID, cfg.SheetName)
}

func open(ctx context.Context, svc *gsheet.Service, spreadsheetID, sheetName string) (*Client, error) {
	ss, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", spreadsheetID, err)
	}
	var target *gsheet.SheetProperties
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		if sheetName == "" || strings.EqualFold(sh.Properties.Title, sheetName) {
			target = sh.Properties
			break
		}
	}
	if target == nil {
		if sheetName == "" {
			return nil, fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
		}
		return nil, fmt.Errorf("sheet %q not found in spreadsheet %s", sheetName, spreadsheetID)
	}

	slog.InfoContext(ctx, "Connected to Google Sheets ledger",
		"spreadsheet_id", spreadsheetID,
		"sheet", target.Title,
		"sheet_id", target.SheetId)

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetTitle:    target.Title,
		sheetID:       target.SheetId,
	}, nil
}

// newSheetsService prefers service account credentials and falls back to
// an OAuth client with a stored token (see cmd/gastos auth).
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)

	slog.InfoContext(ctx, "Checking Google credentials",
		"has_service_account_json", serviceAccountJSON != "",
		"service_account_file", serviceAccountFile,
		"has_oauth_client", cfg.OAuthClientJSON != "" || cfg.OAuthClientFile != "")

	switch {
	case serviceAccountJSON != "":
		return serviceAccountService(ctx, []byte(serviceAccountJSON))
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return serviceAccountService(ctx, b)
	case cfg.OAuthClientJSON != "" || cfg.OAuthClientFile != "":
		return oauthService(ctx, cfg)
	default:
		return nil, errors.New("missing credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_OAUTH_CLIENT_*)")
	}
}

func serviceAccountService(ctx context.Context, credentialsJSON []byte) (*gsheet.Service, error) {
	jwtConfig, err := oauthgoogle.JWTConfigFromJSON(credentialsJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauth2.NewClient(ctx, jwtConfig.TokenSource(ctx))))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func oauthService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	oauthCfg, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

func readInline(inline, path string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("neither inline JSON nor file configured")
	}
	return os.ReadFile(path)
}

// newHTTPClientWithPooling creates the base HTTP client used under the
// OAuth transport, with connection pooling and bounded timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

func (c *Client) Name() string { return name }

func (c *Client) dataRange() string {
	return fmt.Sprintf("'%s'!A:E", strings.ReplaceAll(c.sheetTitle, "'", "''"))
}

func (c *Client) readRows(ctx context.Context) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.dataRange()).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.dataRange(), err)
	}
	return resp.Values, nil
}

// Initialize writes the header row when the sheet holds no values at all.
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.readRows(ctx)
	if err != nil {
		return &core.StoreError{Store: name, Op: "initialize", Err: err}
	}
	if len(rows) > 0 {
		return nil
	}
	if err := c.appendRow(ctx, headerRow()); err != nil {
		return &core.StoreError{Store: name, Op: "initialize", Err: err}
	}
	slog.InfoContext(ctx, "Initialized ledger sheet header", "sheet", c.sheetTitle)
	return nil
}

// LoadAll reads every row below the header. Values that cannot be coerced
// are reported as parse warnings and left missing.
func (c *Client) LoadAll(ctx context.Context) (core.Snapshot, error) {
	rows, err := c.readRows(ctx)
	if err != nil {
		return nil, &core.StoreError{Store: name, Op: "load", Err: err}
	}
	snap := parseRows(rows)
	for _, w := range snap.Warnings() {
		slog.WarnContext(ctx, "Unparseable value in ledger sheet",
			"sheet", c.sheetTitle, "position", w.Position, "field", w.Field, "value", w.Value)
	}
	return snap, nil
}

func (c *Client) Append(ctx context.Context, e core.Expense) error {
	if err := c.appendRow(ctx, expenseRow(e)); err != nil {
		return &core.StoreError{Store: name, Op: "append", Err: err}
	}
	slog.InfoContext(ctx, "Expense appended to sheet",
		"sheet", c.sheetTitle,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (c *Client) appendRow(ctx context.Context, row []any) error {
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.dataRange(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.sheetTitle, err)
	}
	return nil
}

// Delete removes the record at position. Row 1 holds the header, so the
// record sits on sheet row position+1, which is zero-based index position.
func (c *Client) Delete(ctx context.Context, position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.readRows(ctx)
	if err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: err}
	}
	if err := ledger.CheckPosition(name, position, max(len(rows)-1, 0)); err != nil {
		return err
	}
	// blank rows are never listed, so they cannot be deleted by position
	if isBlank(rows[position]) {
		return &core.StoreError{Store: name, Op: "delete", Err: ledger.ErrPositionOutOfRange}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:         c.sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(position),
					EndIndex:        int64(position + 1),
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return &core.StoreError{Store: name, Op: "delete", Err: fmt.Errorf("delete row %d: %w", position+1, err)}
	}
	slog.InfoContext(ctx, "Expense row deleted from sheet", "sheet", c.sheetTitle, "position", position, "row", position+1)
	return nil
}
