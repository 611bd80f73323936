package easify

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
)

// Discovery resolves the endpoint of the Easify server associated with a
// subscription via the Easify discovery service.
type Discovery struct {
	url      string
	username string
	password string
	http     *http.Client
	log      *zap.Logger
}

// NewDiscovery builds a Discovery client. Discovery calls use the short
// timeout since they are made interactively from the admin surface.
func NewDiscovery(cfg config.Easify, logger *zap.Logger) *Discovery {
	timeout := cfg.ShortTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Discovery{
		url:      cfg.DiscoveryURL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout, Transport: transport},
		log:      logger,
	}
}

// ServerEndpoint returns the URL of the subscription's Easify server. The
// discovery service answers with a JSON-quoted string; the quotes are
// stripped.
func (d *Discovery) ServerEndpoint(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.SetBasicAuth(d.username, d.password)

	resp, err := d.http.Do(req)
	if err != nil {
		d.log.Error("easify discovery request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: discovery status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	endpoint := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if endpoint == "" {
		return "", ErrMalformedFeed
	}
	d.log.Info("easify server endpoint discovered", zap.String("endpoint", endpoint))
	return endpoint, nil
}
