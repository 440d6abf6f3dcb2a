package secret

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// SecretStore is the remote parameter store the signing secret lives in.
type SecretStore interface {
	FetchSecret(ctx context.Context, name string) ([]byte, error)
}

type httpStore struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPStore(baseURL string, timeout time.Duration, logger *zap.Logger) SecretStore {
	return &httpStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type parameterResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FetchSecret does a GET against {base}/parameters/{name}. Transient failures
// (network errors, 5xx) are retried with exponential backoff; a 404 is final.
func (s *httpStore) FetchSecret(ctx context.Context, name string) ([]byte, error) {
	target := fmt.Sprintf("%s/parameters/%s", s.baseURL, url.PathEscape(name))

	var value []byte
	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			s.logger.Warn("secret store request failed", zap.Error(err))
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fallthrough to decode below
		case resp.StatusCode == http.StatusNotFound:
			return ErrSecretNotFound
		case resp.StatusCode >= 500:
			s.logger.Warn("secret store returned server error", zap.Int("status", resp.StatusCode))
			return retry.RetryableError(fmt.Errorf("secret store status %d", resp.StatusCode))
		default:
			return fmt.Errorf("secret store status %d", resp.StatusCode)
		}

		var body parameterResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return err
		}
		if body.Value == "" {
			return ErrSecretNotFound
		}
		value = []byte(body.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
