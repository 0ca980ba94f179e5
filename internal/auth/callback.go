package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	// CallbackPort is the port for the OAuth callback server
	CallbackPort = 8089
	// AuthTimeout is how long to wait for the user to complete auth
	AuthTimeout = 5 * time.Minute
)

// RedirectURL is the callback address registered with the Strava application
var RedirectURL = fmt.Sprintf("http://localhost:%d/callback", CallbackPort)

const successPage = `<!DOCTYPE html>
<html>
<head><title>runcoach</title></head>
<body style="font-family: system-ui; text-align: center; margin-top: 20vh;">
<h1 style="color: #FC4C02;">Connected to Strava</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`

// Authenticate runs the authorization-code flow with a local callback server.
// The authorization URL is written to prompt for the user to open.
func Authenticate(ctx context.Context, cfg *oauth2.Config, prompt io.Writer) (*Result, error) {
	log := zerolog.Ctx(ctx)

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, codes, errs))

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer shutdownServer(server)

	fmt.Fprintf(prompt, "\nTo connect runcoach to Strava, open this URL in your browser:\n\n  %s\n\nWaiting for authorization...\n",
		cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
	log.Debug().Int("port", CallbackPort).Msg("waiting for oauth callback")

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return nil, err
	case <-time.After(AuthTimeout):
		return nil, fmt.Errorf("authentication timeout after %v", AuthTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}

	res := &Result{Token: token, AthleteID: ExtractAthleteID(token)}
	log.Info().Int64("athlete", res.AthleteID).Time("expires", token.Expiry).Msg("authorized")
	return res, nil
}

// callbackHandler delivers the authorization code or the failure reason.
// Both channels must be buffered; only the first callback is delivered.
func callbackHandler(state string, codes chan<- string, errs chan<- error) http.Handler {
	fail := func(w http.ResponseWriter, err error, msg string) {
		select {
		case errs <- err:
		default:
		}
		http.Error(w, msg, http.StatusBadRequest)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			fail(w, errors.New("state mismatch - possible CSRF attack"), "State mismatch")
			return
		}
		if msg := q.Get("error"); msg != "" {
			fail(w, fmt.Errorf("auth error: %s", msg), "Authentication failed")
			return
		}
		code := q.Get("code")
		if code == "" {
			fail(w, errors.New("no code in callback"), "No authorization code")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, successPage)
		select {
		case codes <- code:
		default:
		}
	})
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func shutdownServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
