package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nathanbeddoewebdev/namectl/internal/logging"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/services/auth"

	"go.uber.org/zap"
)

const (
	GraphQLName            = "graphql"
	DefaultGraphQLEndpoint = "http://localhost:8000/graphql"
	graphqlTimeout         = 30 * time.Second
	maxErrorBody           = 4 << 10
)

// Compile-time check that GraphQLProvider satisfies domain.Provider.
var _ domain.Provider = (*GraphQLProvider)(nil)

// GraphQLProvider implements domain.Provider against a GraphQL endpoint
// that resolves names and submits record transactions on the caller's
// behalf.
type GraphQLProvider struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *zap.Logger
}

// NewGraphQLProvider creates a GraphQLProvider for endpoint. token is sent
// as a bearer credential when non-empty.
func NewGraphQLProvider(endpoint, token string, logger *zap.Logger) *GraphQLProvider {
	if endpoint == "" {
		endpoint = DefaultGraphQLEndpoint
	}
	return &GraphQLProvider{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: graphqlTimeout},
		logger:   logging.OrNop(logger),
	}
}

// RegisterGraphQL registers the GraphQL provider factory. The token is
// optional; read-only use works without one, so an unreachable keychain
// only costs the credentials. A nil logger means the global zap logger at
// construction time, so commands can install theirs after registration.
func RegisterGraphQL(endpoint string, logger *zap.Logger) {
	Register(GraphQLName, func(store auth.Store) (domain.Provider, error) {
		log := logger
		if log == nil {
			log = zap.L()
		}
		token, err := auth.OptionalToken(store, GraphQLName)
		if err != nil {
			log.Warn("keychain unavailable, continuing without credentials", zap.Error(err))
			token = ""
		}
		return NewGraphQLProvider(endpoint, token, log), nil
	})
}

// GetDisplayName returns the human-readable provider name.
func (p *GraphQLProvider) GetDisplayName() string {
	return "GraphQL"
}

// --- Operations ---

const (
	queryGetDomain = `query getDomain($name: String!) {
  getDomain(name: $name) { name owner resolver addr content contentType }
}`
	queryMigrationInfo = `query getResolverMigrationInfo($name: String!, $resolver: String!) {
  getResolverMigrationInfo(name: $name, resolver: $resolver) {
    isOldPublicResolver isDeprecatedResolver areRecordsMigrated
  }
}`
	queryAddresses = `query getAddresses($name: String!, $keys: [String!]!) {
  getAddresses(name: $name, keys: $keys) { key value }
}`
	queryTextRecords = `query getTextRecords($name: String!, $keys: [String!]!) {
  getTextRecords(name: $name, keys: $keys) { key value }
}`
	mutationSetResolver    = `mutation setResolver($name: String!, $address: String!) { setResolver(name: $name, address: $address) }`
	mutationSetAddress     = `mutation setAddress($name: String!, $recordValue: String!) { setAddress(name: $name, recordValue: $recordValue) }`
	mutationSetContent     = `mutation setContent($name: String!, $recordValue: String!) { setContent(name: $name, recordValue: $recordValue) }`
	mutationSetContenthash = `mutation setContenthash($name: String!, $recordValue: String!) { setContenthash(name: $name, recordValue: $recordValue) }`
	mutationSetText        = `mutation setText($name: String!, $key: String!, $recordValue: String!) { setText(name: $name, key: $key, recordValue: $recordValue) }`
	mutationSetAddr        = `mutation setAddr($name: String!, $key: String!, $recordValue: String!) { setAddr(name: $name, key: $key, recordValue: $recordValue) }`
)

// --- Wire types ---

type graphqlRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// StatusError is returned for non-2xx HTTP responses that do not map to a
// domain sentinel. It exposes the status code for retry classification.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graphql: HTTP %d", e.Code)
	}
	return fmt.Sprintf("graphql: HTTP %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int { return e.Code }

// --- HTTP helpers ---

// do executes one GraphQL operation and decodes its data field into out.
func (p *GraphQLProvider) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(graphqlRequest{OperationName: op, Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("graphql: failed to encode %s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("graphql: failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("graphql: %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	p.logger.Debug("graphql request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return mapStatus(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("graphql: failed to decode %s response: %w", op, err)
	}
	if len(envelope.Errors) > 0 {
		return mapGraphQLErrors(envelope.Errors)
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("graphql: failed to decode %s data: %w", op, err)
	}
	return nil
}

// mapStatus converts an HTTP status to a domain sentinel where one fits.
func mapStatus(code int, body string) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", domain.ErrUnauthorized, code)
	case http.StatusNotFound:
		return fmt.Errorf("%w: HTTP %d", domain.ErrNotFound, code)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", domain.ErrRateLimited, code)
	case http.StatusConflict:
		return fmt.Errorf("%w: HTTP %d", domain.ErrConflict, code)
	}
	return &StatusError{Code: code, Body: body}
}

// mapGraphQLErrors converts the first GraphQL error to a domain sentinel,
// using the extension code when present and the message otherwise.
func mapGraphQLErrors(errs []graphqlError) error {
	first := errs[0]
	msg := first.Message
	if len(errs) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
	}

	code := strings.ToUpper(first.Extensions.Code)
	lower := strings.ToLower(first.Message)
	switch {
	case code == "UNAUTHENTICATED" || code == "FORBIDDEN" ||
		strings.Contains(lower, "unauthorized") || strings.Contains(lower, "not the owner"):
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case code == "NOT_FOUND" || strings.Contains(lower, "not found"):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case code == "RATE_LIMITED" || strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests"):
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case code == "CONFLICT" || strings.Contains(lower, "pending transaction") || strings.Contains(lower, "nonce too low"):
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	case code == "BAD_USER_INPUT":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
	}
	return errors.New("graphql: " + msg)
}

// --- Provider implementation ---

// GetDomain returns the current state of a name.
func (p *GraphQLProvider) GetDomain(ctx context.Context, name string) (*domain.Domain, error) {
	var out struct {
		GetDomain *domain.Domain `json:"getDomain"`
	}
	if err := p.do(ctx, "getDomain", queryGetDomain, map[string]any{"name": name}, &out); err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", name, err)
	}
	if out.GetDomain == nil {
		return nil, fmt.Errorf("name %q: %w", name, domain.ErrNotFound)
	}
	if out.GetDomain.Name == "" {
		out.GetDomain.Name = name
	}
	return out.GetDomain, nil
}

// GetResolverMigrationInfo reports whether resolver is outdated for name.
func (p *GraphQLProvider) GetResolverMigrationInfo(ctx context.Context, name, resolver string) (*domain.MigrationInfo, error) {
	var out struct {
		Info *domain.MigrationInfo `json:"getResolverMigrationInfo"`
	}
	vars := map[string]any{"name": name, "resolver": resolver}
	if err := p.do(ctx, "getResolverMigrationInfo", queryMigrationInfo, vars, &out); err != nil {
		return nil, fmt.Errorf("failed to get migration info for %q: %w", name, err)
	}
	if out.Info == nil {
		return nil, fmt.Errorf("migration info for %q: %w", name, domain.ErrNotFound)
	}
	return out.Info, nil
}

// ListAddresses returns the non-empty address records for coins.
func (p *GraphQLProvider) ListAddresses(ctx context.Context, name string, coins []string) ([]domain.AddressRecord, error) {
	var out struct {
		Records []domain.AddressRecord `json:"getAddresses"`
	}
	vars := map[string]any{"name": name, "keys": coins}
	if err := p.do(ctx, "getAddresses", queryAddresses, vars, &out); err != nil {
		return nil, fmt.Errorf("failed to list addresses for %q: %w", name, err)
	}

	records := make([]domain.AddressRecord, 0, len(out.Records))
	for _, r := range out.Records {
		if r.Value != "" {
			records = append(records, r)
		}
	}
	return records, nil
}

// ListTextRecords returns the non-empty text records for keys.
func (p *GraphQLProvider) ListTextRecords(ctx context.Context, name string, keys []string) ([]domain.TextRecord, error) {
	var out struct {
		Records []domain.TextRecord `json:"getTextRecords"`
	}
	vars := map[string]any{"name": name, "keys": keys}
	if err := p.do(ctx, "getTextRecords", queryTextRecords, vars, &out); err != nil {
		return nil, fmt.Errorf("failed to list text records for %q: %w", name, err)
	}

	records := make([]domain.TextRecord, 0, len(out.Records))
	for _, r := range out.Records {
		if r.Value != "" {
			records = append(records, r)
		}
	}
	return records, nil
}

// mutate runs a record mutation. The returned transaction hash is logged
// and discarded.
func (p *GraphQLProvider) mutate(ctx context.Context, op, query string, vars map[string]any) error {
	var out map[string]json.RawMessage
	if err := p.do(ctx, op, query, vars, &out); err != nil {
		return fmt.Errorf("failed to %s for %q: %w", op, vars["name"], err)
	}
	if tx, ok := out[op]; ok {
		p.logger.Debug("transaction submitted", zap.String("op", op), zap.ByteString("tx", tx))
	}
	return nil
}

// SetResolver points name at a new resolver contract.
func (p *GraphQLProvider) SetResolver(ctx context.Context, name, address string) error {
	return p.mutate(ctx, "setResolver", mutationSetResolver, map[string]any{"name": name, "address": address})
}

// SetAddress sets the primary address record.
func (p *GraphQLProvider) SetAddress(ctx context.Context, name, address string) error {
	return p.mutate(ctx, "setAddress", mutationSetAddress, map[string]any{"name": name, "recordValue": address})
}

// SetContent sets the legacy content record.
func (p *GraphQLProvider) SetContent(ctx context.Context, name, content string) error {
	return p.mutate(ctx, "setContent", mutationSetContent, map[string]any{"name": name, "recordValue": content})
}

// SetContenthash sets the contenthash record.
func (p *GraphQLProvider) SetContenthash(ctx context.Context, name, hash string) error {
	return p.mutate(ctx, "setContenthash", mutationSetContenthash, map[string]any{"name": name, "recordValue": hash})
}

// SetText sets a text record.
func (p *GraphQLProvider) SetText(ctx context.Context, name, key, value string) error {
	return p.mutate(ctx, "setText", mutationSetText, map[string]any{"name": name, "key": key, "recordValue": value})
}

// SetAddr sets the address record for another coin.
func (p *GraphQLProvider) SetAddr(ctx context.Context, name, coin, value string) error {
	return p.mutate(ctx, "setAddr", mutationSetAddr, map[string]any{"name": name, "key": coin, "recordValue": value})
}
