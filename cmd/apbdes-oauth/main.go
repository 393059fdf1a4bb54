// Command apbdes-oauth authorizes read access to the seed spreadsheet and
// stores the resulting user token for the sheets seed source.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"apbdes/internal/cli"
	"apbdes/internal/config"
	applog "apbdes/internal/log"
	gsheet "apbdes/internal/sheets/google"
)

const authorizeTimeout = 5 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentSheets)
	cfg := config.Load()

	oauthCfg, err := gsheet.OAuthConfig(gsheet.Options{
		OAuthClientJSON: cfg.GoogleOAuthClientJSON,
		OAuthClientFile: cfg.GoogleOAuthClientFile,
	})
	if err != nil {
		logger.Error("Invalid OAuth client", applog.FieldError, err)
		os.Exit(1)
	}

	// The redirect URI must be registered on the OAuth client.
	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}
	oauthCfg.RedirectURL = "http://localhost:" + port + "/callback"

	state := uuid.NewString()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "OAuth error: "+q.Get("error"), http.StatusBadRequest)
			select {
			case errs <- fmt.Errorf("authorization denied: %s", q.Get("error")):
			default:
			}
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
		default:
			select {
			case codes <- q.Get("code"):
				fmt.Fprintln(w, "Authorization complete. You may close this window.")
			default:
				http.Error(w, "authorization already received", http.StatusConflict)
			}
		}
	})
	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize:\n%s\n", oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	ctx, done := cli.GracefulShutdown(logger, time.Second, nil)
	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		logger.Error("Authorization failed", applog.FieldError, err)
		os.Exit(1)
	case <-time.After(authorizeTimeout):
		logger.Error("Authorization timed out", "timeout", authorizeTimeout)
		os.Exit(1)
	case <-ctx.Done():
		cli.WaitForShutdown(ctx, done)
		os.Exit(1)
	}

	exchangeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	tok, err := oauthCfg.Exchange(exchangeCtx, code)
	if err != nil {
		logger.Error("Token exchange failed", applog.FieldError, err)
		os.Exit(1)
	}

	out := cfg.GoogleOAuthTokenFile
	if out == "" {
		out = "token.json"
	}
	if err := writeToken(out, tok); err != nil {
		logger.Error("Failed to save token", applog.FieldError, err, "path", out)
		os.Exit(1)
	}
	logger.Info("Saved OAuth token", "path", out)
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
