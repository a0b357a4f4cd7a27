package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/flexprice/ordertax/internal/config"
	"github.com/flexprice/ordertax/internal/domain/ordertax"
	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/httpclient"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const headerAPIKey = "X-API-Key"

// listResponse is the body returned by the configuration service
type listResponse struct {
	Items []*taxconfig.TaxConfiguration `json:"items"`
}

// TaxConfigurationSource reads candidate configurations from the
// configuration service over HTTP. It is read only.
type TaxConfigurationSource struct {
	client  httpclient.Client
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

var _ ordertax.ConfigurationSource = (*TaxConfigurationSource)(nil)

func NewTaxConfigurationSource(cfg *config.Configuration, client httpclient.Client, logger *logger.Logger) *TaxConfigurationSource {
	return &TaxConfigurationSource{
		client:  client,
		baseURL: strings.TrimRight(cfg.ConfigService.BaseURL, "/"),
		apiKey:  cfg.ConfigService.APIKey,
		logger:  logger,
	}
}

// ListCandidates fetches the configurations that may apply to the service
// type. An unknown organization yields no candidates.
func (s *TaxConfigurationSource) ListCandidates(ctx context.Context, organizationID string, serviceType types.ServiceType) ([]*taxconfig.TaxConfiguration, error) {
	endpoint := fmt.Sprintf("%s/organizations/%s/tax-configurations?%s",
		s.baseURL,
		url.PathEscape(organizationID),
		url.Values{"service_type": []string{string(serviceType)}}.Encode(),
	)

	headers := map[string]string{"Accept": "application/json"}
	if s.apiKey != "" {
		headers[headerAPIKey] = s.apiKey
	}

	resp, err := s.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     endpoint,
		Headers: headers,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode == http.StatusNotFound {
			s.logger.Debugw("organization unknown to configuration service",
				"organization_id", organizationID,
			)
			return nil, nil
		}

		s.logger.Warnw("configuration service request failed",
			"organization_id", organizationID,
			"service_type", serviceType,
			"error", err,
		)
		return nil, ierr.WithError(err).
			WithHint("Configuration service is unavailable").
			Mark(ierr.ErrUnavailable)
	}

	var body listResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Configuration service returned an unreadable response").
			Mark(ierr.ErrUnavailable)
	}

	return body.Items, nil
}
