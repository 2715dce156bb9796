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

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	CallbackPort = 8089
	// AuthTimeout is how long to wait for the user to approve access
	AuthTimeout = 5 * time.Minute
)

// RedirectURL is the callback address registered with Strava
var RedirectURL = fmt.Sprintf("http://localhost:%d/callback", CallbackPort)

const successPage = `<!DOCTYPE html>
<html>
<head><title>ridecoach connected</title></head>
<body style="font-family: system-ui; text-align: center; padding-top: 20vh;">
<h1 style="color: #FC4C02;">Connected to Strava</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`

// Authenticate runs the authorization-code flow with a local callback server.
// The authorization URL is written to out for the user to open.
func Authenticate(ctx context.Context, cfg *oauth2.Config, out io.Writer) (*Result, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}
	return authenticate(ctx, cfg, listener, out, AuthTimeout)
}

func authenticate(ctx context.Context, cfg *oauth2.Config, listener net.Listener, out io.Writer, timeout time.Duration) (*Result, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			sendErr(errCh, errors.New("state mismatch"))
			http.Error(w, "State mismatch", http.StatusBadRequest)
		case q.Get("error") != "":
			sendErr(errCh, fmt.Errorf("authorization denied: %s", q.Get("error")))
			http.Error(w, "Authorization failed", http.StatusBadRequest)
		case q.Get("code") == "":
			sendErr(errCh, errors.New("no code in callback"))
			http.Error(w, "No authorization code", http.StatusBadRequest)
		default:
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, successPage)
			select {
			case codeCh <- q.Get("code"):
			default:
			}
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errCh, fmt.Errorf("callback server: %w", err))
		}
	}()
	defer shutdownServer(server)

	fmt.Fprintf(out, "\nTo connect ridecoach to Strava, open this URL in your browser:\n\n  %s\n\nWaiting for authorization...\n",
		cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("authorization timed out after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}

	athleteID := ExtractAthleteID(token)
	log.WithField("athlete_id", athleteID).Info("strava authorization complete")

	return &Result{Token: token, AthleteID: athleteID}, nil
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// generateState creates a random state string for CSRF protection
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
