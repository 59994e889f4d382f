// Command twitch-auth walks the OAuth authorization code flow end to end: it
// prints the authorization URL, hosts the redirect endpoint locally, exchanges
// the returned code and reports the resulting token.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-twitch-auth/httpcall"
	"github.com/jrsteele09/go-twitch-auth/internal/config"
	"github.com/jrsteele09/go-twitch-auth/scopes"
	"github.com/jrsteele09/go-twitch-auth/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	displayAppname(cfg.AppName)

	logger := newLogger(cfg.LogLevel)
	call := httpcall.New(&http.Client{Timeout: 30 * time.Second})

	builder, err := token.NewUserTokenBuilder(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL,
		token.WithScopes(scopes.FromStrings(cfg.Scopes)...),
		token.WithForceVerify(cfg.ForceVerify),
		token.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	authURL, _ := builder.GenerateURL()
	fmt.Printf("Open the following URL in a browser:\n\n    %s\n\n", authURL)

	userToken, err := waitForCallback(logger, builder, call, cfg.ListenAddr)
	if err != nil {
		return err
	}

	fmt.Printf("Authorized as %s (user id %s)\n", userToken.Login(), userToken.UserID())
	fmt.Printf("Scopes:             %s\n", scopes.Join(userToken.Scopes()))
	fmt.Printf("Remaining lifetime: %s\n", userToken.RemainingLifetime().Round(time.Second))

	if userToken.RefreshToken() != "" {
		if err := userToken.Refresh(context.Background(), call); err != nil {
			return errors.Wrap(err, "refreshing token")
		}
		fmt.Printf("Refreshed, new remaining lifetime: %s\n", userToken.RemainingLifetime().Round(time.Second))
	}
	return nil
}

// waitForCallback hosts the redirect endpoint until the provider calls back
// or the process is interrupted.
func waitForCallback(logger zerolog.Logger, builder *token.UserTokenBuilder, call httpcall.Caller, addr string) (*token.UserToken, error) {
	type outcome struct {
		userToken *token.UserToken
		err       error
	}
	done := make(chan outcome, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errCode := q.Get("error"); errCode != "" {
			http.Error(w, "authorization failed", http.StatusBadRequest)
			done <- outcome{err: &token.CallbackError{Code: errCode, Description: q.Get("error_description")}}
			return
		}

		userToken, err := builder.Exchange(r.Context(), call, q.Get("state"), q.Get("code"))
		if err != nil {
			http.Error(w, "authorization failed", http.StatusBadRequest)
			done <- outcome{err: err}
			return
		}
		fmt.Fprintln(w, "Authorization complete, you can close this tab.")
		done <- outcome{userToken: userToken}
	})

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info().Str("addr", addr).Msg("waiting for the authorization callback")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			done <- outcome{err: errors.Wrap(err, "server.ListenAndServe")}
		}
	}()
	defer shutdown(server)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case result := <-done:
		return result.userToken, result.err
	case <-stop:
		return nil, errors.New("interrupted before the callback arrived")
	}
}

func shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(parsed).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
