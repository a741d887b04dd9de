package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/codec"
	"github.com/opentimestamps/go-ots/pkg/model"
)

// DefaultTimeout bounds a single calendar round trip when the caller
// supplies no http.Client.
const DefaultTimeout = 30 * time.Second

// HTTPClient is the real net/http implementation of Client, grounded on the
// peer-fan-out httpClient field of pkg/attestation/service.go and
// pkg/batch/peer_manager.go.
type HTTPClient struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewHTTPClient constructs an HTTPClient. A nil httpClient gets one built
// with DefaultTimeout; a nil logger falls back to a package-level default.
func NewHTTPClient(httpClient *http.Client, logger *log.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = defaultLogger
	}
	return &HTTPClient{httpClient: httpClient, logger: logger}
}

var defaultLogger = log.New(log.Writer(), "[Calendar] ", log.LstdFlags)

// Submit issues POST <url>/digest with digest as the raw body (spec.md
// §4.4, §6).
func (c *HTTPClient) Submit(ctx context.Context, url model.URL, digest []byte) (*model.Tree, error) {
	body, err := c.do(ctx, http.MethodPost, url.String()+"/digest", bytes.NewReader(digest))
	if err != nil {
		return nil, err
	}
	tree, err := codec.ReadTreeStrict(body)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: malformed digest response: %w", url, err)
	}
	return tree, nil
}

// Upgrade issues GET <url>/timestamp/<hex-msg> (spec.md §4.4, §6).
func (c *HTTPClient) Upgrade(ctx context.Context, url model.URL, msg []byte) (*model.Tree, error) {
	endpoint := fmt.Sprintf("%s/timestamp/%s", url, bytesutil.ToHex(msg))
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	tree, err := codec.ReadTreeStrict(body)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: malformed timestamp response: %w", url, err)
	}
	return tree, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: building request: %w", endpoint, err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("%s %s failed: %v", method, endpoint, err)
		return nil, fmt.Errorf("calendar %s: request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("calendar %s: reading response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar %s: status %d: %s", endpoint, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
