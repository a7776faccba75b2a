// Package crm provides a RecordSource backed by the CRM's REST
// extraction endpoint.
//
// The endpoint owns eligibility filtering and deduplication; this
// client only pages the pre-filtered pool down. Authentication is
// OAuth2 client credentials, and requests are throttled client-side so
// a nightly pull never trips the CRM's API quota.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
	"github.com/listiq-labs/listiq-cli/internal/core/ports/driven"
	"github.com/listiq-labs/listiq-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

const (
	// DefaultPageSize is the records-per-request page size.
	DefaultPageSize = 500

	// DefaultRequestsPerSecond is the client-side throttle rate.
	DefaultRequestsPerSecond = 4.0

	// requestTimeout bounds a single page request.
	requestTimeout = 30 * time.Second
)

// Config holds the CRM connection settings.
type Config struct {
	// BaseURL is the API root, e.g. https://crm.example.com/api/v2.
	BaseURL string

	// TokenURL is the OAuth2 client-credentials token endpoint.
	// When empty, requests are sent unauthenticated (test servers).
	TokenURL string

	// ClientID and ClientSecret authenticate the extraction client.
	ClientID     string
	ClientSecret string

	// PageSize overrides DefaultPageSize when positive.
	PageSize int

	// RequestsPerSecond overrides DefaultRequestsPerSecond when positive.
	RequestsPerSecond float64
}

// Source pages the candidate pool from the CRM REST API.
type Source struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	pageSize int
}

// apiRecord is the wire shape of one pool record.
type apiRecord struct {
	ID        string            `json:"id"`
	Phone     string            `json:"phone"`
	CreatedAt time.Time         `json:"created_at"`
	Fields    map[string]string `json:"fields"`
}

// poolPage is the wire shape of one extraction page.
type poolPage struct {
	Records []apiRecord `json:"records"`
	Done    bool        `json:"done"`
}

// NewSource creates a CRM-backed record source.
func NewSource(cfg Config) *Source {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	client := &http.Client{Timeout: requestTimeout}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		client = cc.Client(context.Background())
		client.Timeout = requestTimeout
	}

	return &Source{
		baseURL:  cfg.BaseURL,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		pageSize: pageSize,
	}
}

// Fetch pages the full candidate pool down from the CRM.
func (s *Source) Fetch(ctx context.Context) ([]domain.Record, error) {
	var records []domain.Record

	offset := 0
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := s.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		for _, r := range page.Records {
			payload := make(map[string]string, len(r.Fields)+1)
			for k, v := range r.Fields {
				payload[k] = v
			}
			payload["phone"] = r.Phone

			records = append(records, domain.Record{
				ID:             r.ID,
				LocalitySignal: r.Phone,
				CreatedAt:      r.CreatedAt,
				Payload:        payload,
			})
		}

		if page.Done || len(page.Records) == 0 {
			break
		}
		offset += len(page.Records)
	}

	logger.Debug("fetched %d pool records from CRM", len(records))
	return records, nil
}

// fetchPage requests one extraction page.
func (s *Source) fetchPage(ctx context.Context, offset int) (*poolPage, error) {
	endpoint, err := url.Parse(s.baseURL + "/records")
	if err != nil {
		return nil, fmt.Errorf("building records URL: %w", err)
	}

	q := endpoint.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(s.pageSize))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building records request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching records page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("records endpoint returned %s", resp.Status)
	}

	var page poolPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding records page: %w", err)
	}

	return &page, nil
}
