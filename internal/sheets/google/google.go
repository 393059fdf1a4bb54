package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"apbdes/internal/core"
	ports "apbdes/internal/sheets"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSeedSheet is read when no sheet name is configured.
const DefaultSeedSheet = "APBDes"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	seedSheet     string
}

// Ensure interface conformance
var _ ports.SeedReader = (*Client)(nil)

// Options selects the spreadsheet and the account used to read it. An OAuth
// client switches authentication from the service account to a user token.
type Options struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string

	OAuthClientJSON string
	OAuthClientFile string
	OAuthTokenJSON  string
	OAuthTokenFile  string
}

func (o Options) usesOAuth() bool {
	return strings.TrimSpace(o.OAuthClientJSON) != "" || strings.TrimSpace(o.OAuthClientFile) != ""
}

// New creates a Sheets client authenticated with a service account or, when
// an OAuth client is configured, with a stored user token.
func New(ctx context.Context, o Options, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID := strings.TrimSpace(o.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet := strings.TrimSpace(o.SheetName)
	if sheet == "" {
		sheet = DefaultSeedSheet
	}

	if len(opts) == 0 && o.usesOAuth() {
		ts, err := oauthTokenSource(ctx, o)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{goption.WithTokenSource(ts)}
	} else if len(opts) == 0 {
		creds, err := credentials(ctx, o)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		}
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, seedSheet: sheet}, nil
}

// credentials resolves the service account key, falling back to
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(ctx context.Context, o Options) ([]byte, error) {
	inline := strings.TrimSpace(o.CredentialsJSON)
	file := strings.TrimSpace(o.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE or GOOGLE_APPLICATION_CREDENTIALS)")
}

// OAuthConfig parses the OAuth client of o with read-only Sheets scope.
func OAuthConfig(o Options) (*oauth2.Config, error) {
	raw, err := inlineOrFile(o.OAuthClientJSON, o.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client: %w", err)
	}
	if raw == nil {
		return nil, errors.New("missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}
	cfg, err := goauth.ConfigFromJSON(raw, gsheet.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

func oauthTokenSource(ctx context.Context, o Options) (oauth2.TokenSource, error) {
	cfg, err := OAuthConfig(o)
	if err != nil {
		return nil, err
	}
	raw, err := inlineOrFile(o.OAuthTokenJSON, o.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}
	if raw == nil {
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	slog.InfoContext(ctx, "Using OAuth user token", "expires", tok.Expiry)
	return cfg.TokenSource(ctx, &tok), nil
}

// inlineOrFile returns inline when set, else the contents of file, else nil.
func inlineOrFile(inline, file string) ([]byte, error) {
	if v := strings.TrimSpace(inline); v != "" {
		return []byte(v), nil
	}
	if f := strings.TrimSpace(file); f != "" {
		return os.ReadFile(f)
	}
	return nil, nil
}

// ReadSeed reads the seed sheet. Cells are fetched unformatted so amounts
// arrive as numbers regardless of the spreadsheet locale.
func (c *Client) ReadSeed(ctx context.Context) (core.Document, error) {
	if c.svc == nil {
		return core.Document{}, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:G", c.seedSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return core.Document{}, fmt.Errorf("read %s: %w", rng, err)
	}
	doc, err := parseSeed(resp.Values)
	if err != nil {
		return core.Document{}, fmt.Errorf("parse %s: %w", c.seedSheet, err)
	}
	slog.InfoContext(ctx, "Seed loaded from sheet",
		"sheet", c.seedSheet,
		"revenue_rows", len(doc.Revenue),
		"sections", len(doc.Expenditure))
	return doc, nil
}
