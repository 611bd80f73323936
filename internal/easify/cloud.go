package easify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/easify/storefront-bridge/internal/config"
)

// CloudAPI submits orders to the Easify cloud endpoint, which queues them for
// delivery to the subscription's Easify server.
type CloudAPI struct {
	url      string
	username string
	password string
	http     *http.Client
	log      *zap.Logger
}

// NewCloudAPI builds a CloudAPI client. Cloud calls always verify TLS; the
// cloud endpoint carries a public certificate.
func NewCloudAPI(cfg config.Easify, logger *zap.Logger) *CloudAPI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	return &CloudAPI{
		url:      cfg.CloudAPIURL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
		log:      logger,
	}
}

// SendOrder posts a flattened order record. The response body is logged but
// not interpreted; success is inferred from transport-level success only.
func (c *CloudAPI) SendOrder(ctx context.Context, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("easify cloud api request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	c.log.Info("easify cloud api response",
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(body)))
	return nil
}
