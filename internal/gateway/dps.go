package gateway

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"prisoner-finance-recon/internal/domain"
)

// DpsAPIClient reads balances and transactions from the DPS API.
// Implements usecase.DpsClient.
type DpsAPIClient struct {
	*apiClient
}

// NewDpsAPIClient creates a DPS client bound to one retry policy.
func NewDpsAPIClient(baseURL string, timeout time.Duration, retry RetryPolicy, log *zap.Logger) *DpsAPIClient {
	return &DpsAPIClient{apiClient: newAPIClient("dps-api", baseURL, timeout, retry, log)}
}

func (c *DpsAPIClient) GetPrisonBalances(ctx context.Context, prisonID string) ([]domain.AccountSummary, error) {
	var response struct {
		Accounts []domain.AccountSummary `json:"accounts"`
	}
	path := fmt.Sprintf("/prisons/%s/balances", url.PathEscape(prisonID))
	if err := c.getJSON(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Accounts, nil
}

func (c *DpsAPIClient) GetPrisonerBalances(ctx context.Context, prisonNumber string) (*domain.BalanceFields, error) {
	var balances domain.BalanceFields
	path := fmt.Sprintf("/prisoners/%s/balances", url.PathEscape(prisonNumber))
	if err := c.getJSON(ctx, path, nil, &balances); err != nil {
		return nil, err
	}
	return &balances, nil
}

// GetTransaction returns usecase.ErrNotFound on a 404 so callers can
// branch on absence.
func (c *DpsAPIClient) GetTransaction(ctx context.Context, dpsTransactionID string) (*domain.DpsTransaction, error) {
	var transaction domain.DpsTransaction
	path := fmt.Sprintf("/transactions/%s", url.PathEscape(dpsTransactionID))
	if err := c.getJSON(ctx, path, nil, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}
