package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(`{"message":"Bad Request","errors":[{"code":"invalid"}]}`))
			return
		}
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "refresh_token":
			assert.Equal(t, "refresh-old", r.PostForm.Get("refresh_token"))
			w.Write([]byte(`{"token_type":"Bearer","access_token":"access-new","refresh_token":"refresh-new","expires_in":21600}`))
		case "authorization_code":
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			w.Write([]byte(`{"token_type":"Bearer","access_token":"access-1","refresh_token":"refresh-1","expires_in":21600,"athlete":{"id":4242}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return NewOAuthConfig(Config{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURL:  RedirectURL,
		TokenURL:     tokenURL,
	})
}

func TestRefresher_Refresh(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)

	token, err := NewRefresher(testConfig(srv.URL)).Refresh(context.Background(), "refresh-old")
	require.NoError(t, err)
	assert.Equal(t, "access-new", token.AccessToken)
	assert.Equal(t, "refresh-new", token.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(6*time.Hour), token.Expiry, time.Minute)
}

func TestRefresher_Rejected(t *testing.T) {
	srv := tokenServer(t, http.StatusBadRequest)

	_, err := NewRefresher(testConfig(srv.URL)).Refresh(context.Background(), "refresh-old")
	assert.ErrorIs(t, err, ErrRefreshFailed)

	_, err = NewRefresher(testConfig(srv.URL)).Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestRefresher_UnauthorizedClient(t *testing.T) {
	srv := tokenServer(t, http.StatusUnauthorized)

	_, err := NewRefresher(testConfig(srv.URL)).Refresh(context.Background(), "refresh-old")
	assert.ErrorIs(t, err, ErrRefreshFailed)
}

func TestRefresher_ServerError(t *testing.T) {
	srv := tokenServer(t, http.StatusServiceUnavailable)

	_, err := NewRefresher(testConfig(srv.URL)).Refresh(context.Background(), "refresh-old")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRefreshFailed)

	var re *oauth2.RetrieveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusServiceUnavailable, re.Response.StatusCode)
}

// brokenTransport fails every request before it reaches the network
type brokenTransport struct{}

var errDialTimeout = errors.New("dial tcp: i/o timeout")

func (brokenTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errDialTimeout
}

func TestRefresher_NetworkError(t *testing.T) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: brokenTransport{}})

	_, err := NewRefresher(testConfig("http://token.invalid/oauth/token")).Refresh(ctx, "refresh-old")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRefreshFailed)
	assert.ErrorIs(t, err, errDialTimeout)
}

func TestExtractAthleteID(t *testing.T) {
	token := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]interface{}{
		"athlete": map[string]interface{}{"id": float64(77)},
	})
	assert.Equal(t, int64(77), ExtractAthleteID(token))
	assert.Equal(t, int64(0), ExtractAthleteID(&oauth2.Token{}))
}

// chanWriter hands each write to the test goroutine
type chanWriter chan string

func (c chanWriter) Write(p []byte) (int, error) {
	c <- string(p)
	return len(p), nil
}

func TestAuthenticate_StateMismatch(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	callback := "http://" + listener.Addr().String() + "/callback"

	out := make(chanWriter, 1)
	done := make(chan *Result, 1)
	go func() {
		res, err := authenticate(context.Background(), testConfig(srv.URL), listener, out, 5*time.Second)
		assert.ErrorContains(t, err, "state mismatch")
		done <- res
	}()

	prompt := <-out
	authURL := regexp.MustCompile(`https://\S+`).FindString(prompt)
	require.NotEmpty(t, authURL)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	resp, err := http.Get(callback + "?state=wrong&code=x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	select {
	case res := <-done:
		assert.Nil(t, res)
	case <-time.After(5 * time.Second):
		t.Fatal("authenticate did not return")
	}
}

func TestAuthenticate_Success(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	callback := "http://" + listener.Addr().String() + "/callback"

	out := make(chanWriter, 1)
	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := authenticate(context.Background(), testConfig(srv.URL), listener, out, 5*time.Second)
		done <- outcome{res, err}
	}()

	parsed, err := url.Parse(regexp.MustCompile(`https://\S+`).FindString(<-out))
	require.NoError(t, err)

	resp, err := http.Get(callback + "?state=" + url.QueryEscape(parsed.Query().Get("state")) + "&code=the-code")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, int64(4242), got.res.AthleteID)
	assert.Equal(t, "access-1", got.res.Token.AccessToken)
}
