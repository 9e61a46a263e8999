package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const callbackPath = "/callback"

// DefaultGoogleTimeout bounds the wait for the browser redirect.
const DefaultGoogleTimeout = 3 * time.Minute

// ErrGoogleTimeout is returned when the consent page is abandoned.
var ErrGoogleTimeout = errors.New("google sign-in timed out")

// GoogleConfig is a desktop OAuth client. Port 0 picks a free port.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	Port         int
}

// GoogleProfile is what the userinfo endpoint returns.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleFlow runs the loopback authorization code flow with PKCE.
type GoogleFlow struct {
	oauth   oauth2.Config
	host    string
	apiOpts []option.ClientOption
	browse  func(url string) error
	timeout time.Duration
	log     *zap.Logger
}

type GoogleOption func(*GoogleFlow)

// WithEndpoint overrides the authorization and token endpoints.
func WithEndpoint(e oauth2.Endpoint) GoogleOption {
	return func(f *GoogleFlow) { f.oauth.Endpoint = e }
}

// WithUserinfoOptions is passed to the userinfo service client.
func WithUserinfoOptions(opts ...option.ClientOption) GoogleOption {
	return func(f *GoogleFlow) { f.apiOpts = append(f.apiOpts, opts...) }
}

// WithTimeout changes how long Run waits for the redirect.
func WithTimeout(d time.Duration) GoogleOption {
	return func(f *GoogleFlow) { f.timeout = d }
}

// WithBrowser replaces the function that opens the consent page.
func WithBrowser(fn func(url string) error) GoogleOption {
	return func(f *GoogleFlow) { f.browse = fn }
}

func NewGoogleFlow(cfg GoogleConfig, log *zap.Logger, opts ...GoogleOption) *GoogleFlow {
	if log == nil {
		log = zap.NewNop()
	}
	f := &GoogleFlow{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		host:    net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port)),
		browse:  openBrowser,
		timeout: DefaultGoogleTimeout,
		log:     log.Named("google"),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Run opens the consent page, waits for the redirect and returns the
// user's profile. The whole flow is bounded by the flow timeout and by
// ctx; an expired timeout yields ErrGoogleTimeout.
func (f *GoogleFlow) Run(ctx context.Context) (GoogleProfile, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, f.timeout, ErrGoogleTimeout)
		defer cancel()
	}

	ln, err := net.Listen("tcp", f.host)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("listen for callback: %w", err)
	}

	conf := f.oauth
	conf.RedirectURL = "http://" + ln.Addr().String() + callbackPath
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "Invalid state", http.StatusBadRequest)
			send(errs, errors.New("oauth callback: state mismatch"))
		case q.Get("error") != "":
			http.Error(w, "Sign-in failed: "+q.Get("error"), http.StatusBadRequest)
			send(errs, fmt.Errorf("oauth callback: %s", q.Get("error")))
		case q.Get("code") == "":
			http.Error(w, "No code received", http.StatusBadRequest)
			send(errs, errors.New("oauth callback: missing code"))
		default:
			_, _ = w.Write([]byte("Signed in. You can close this window and return to the terminal."))
			send(codes, q.Get("code"))
		}
	})
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			send(errs, err)
		}
	}()
	defer srv.Close()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	f.log.Info("waiting for google sign-in", zap.String("redirect", conf.RedirectURL))
	if err := f.browse(authURL); err != nil {
		return GoogleProfile{}, fmt.Errorf("open browser: %w", err)
	}

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return GoogleProfile{}, err
	case <-ctx.Done():
		if errors.Is(context.Cause(ctx), ErrGoogleTimeout) {
			return GoogleProfile{}, ErrGoogleTimeout
		}
		return GoogleProfile{}, ctx.Err()
	}

	tok, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("exchange code: %w", err)
	}
	opts := append([]option.ClientOption{option.WithHTTPClient(conf.Client(ctx, tok))}, f.apiOpts...)
	svc, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return GoogleProfile{}, errors.New("userinfo: missing email")
	}
	return GoogleProfile{Subject: info.Id, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
