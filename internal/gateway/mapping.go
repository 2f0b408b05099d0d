package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"prisoner-finance-recon/internal/domain"
	"prisoner-finance-recon/internal/usecase"
)

// MappingAPIClient resolves NOMIS identifiers to DPS identifiers.
// Implements usecase.MappingClient.
type MappingAPIClient struct {
	*apiClient
}

// NewMappingAPIClient creates a mapping client bound to one retry policy.
func NewMappingAPIClient(baseURL string, timeout time.Duration, retry RetryPolicy, log *zap.Logger) *MappingAPIClient {
	return &MappingAPIClient{apiClient: newAPIClient("mapping-api", baseURL, timeout, retry, log)}
}

// LookupTransactionMapping returns (nil, nil) when no mapping row exists.
// "No mapping yet" is an expected state, not a failure.
func (c *MappingAPIClient) LookupTransactionMapping(ctx context.Context, nomisTransactionID int64) (*domain.TransactionMapping, error) {
	var mapping domain.TransactionMapping
	path := fmt.Sprintf("/mapping/transactions/nomis/%d", nomisTransactionID)
	if err := c.getJSON(ctx, path, nil, &mapping); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}
