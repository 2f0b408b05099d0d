package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"prisoner-finance-recon/internal/domain"
)

// NomisAPIClient reads balances and transactions from the NOMIS API.
// Implements usecase.NomisClient.
type NomisAPIClient struct {
	*apiClient
}

// NewNomisAPIClient creates a NOMIS client bound to one retry policy.
func NewNomisAPIClient(baseURL string, timeout time.Duration, retry RetryPolicy, log *zap.Logger) *NomisAPIClient {
	return &NomisAPIClient{apiClient: newAPIClient("nomis-api", baseURL, timeout, retry, log)}
}

func (c *NomisAPIClient) GetPrisonIDs(ctx context.Context) ([]string, error) {
	var response struct {
		PrisonIDs []string `json:"prisonIds"`
	}
	if err := c.getJSON(ctx, "/finance/prisons", nil, &response); err != nil {
		return nil, err
	}
	return response.PrisonIDs, nil
}

func (c *NomisAPIClient) GetPrisonBalances(ctx context.Context, prisonID string) ([]domain.AccountSummary, error) {
	var response struct {
		Accounts []domain.AccountSummary `json:"accounts"`
	}
	path := fmt.Sprintf("/finance/prisons/%s/balances", url.PathEscape(prisonID))
	if err := c.getJSON(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Accounts, nil
}

func (c *NomisAPIClient) GetPrisonerIDs(ctx context.Context, lastPrisonNumber string, pageSize int, prisonIDs []string) (domain.PrisonerPage, error) {
	query := url.Values{}
	query.Set("size", strconv.Itoa(pageSize))
	if lastPrisonNumber != "" {
		query.Set("lastPrisonNumber", lastPrisonNumber)
	}
	if len(prisonIDs) > 0 {
		query.Set("prisonIds", strings.Join(prisonIDs, ","))
	}
	var page domain.PrisonerPage
	if err := c.getJSON(ctx, "/finance/prisoners/ids", query, &page); err != nil {
		return domain.PrisonerPage{}, err
	}
	return page, nil
}

func (c *NomisAPIClient) GetPrisonerBalances(ctx context.Context, prisonNumber string) (*domain.BalanceFields, error) {
	var balances domain.BalanceFields
	path := fmt.Sprintf("/finance/prisoners/%s/balances", url.PathEscape(prisonNumber))
	if err := c.getJSON(ctx, path, nil, &balances); err != nil {
		return nil, err
	}
	return &balances, nil
}

func (c *NomisAPIClient) GetGeneralLedgerTransactions(ctx context.Context, prisonID string, date time.Time) ([]domain.GeneralLedgerRow, error) {
	query := url.Values{}
	query.Set("date", date.Format(time.DateOnly))
	var response struct {
		Transactions []domain.GeneralLedgerRow `json:"transactions"`
	}
	path := fmt.Sprintf("/finance/prisons/%s/transactions", url.PathEscape(prisonID))
	if err := c.getJSON(ctx, path, query, &response); err != nil {
		return nil, err
	}
	return response.Transactions, nil
}

func (c *NomisAPIClient) GetOffenderTransaction(ctx context.Context, transactionID int64) ([]domain.OffenderTransactionRow, error) {
	var response struct {
		Transactions []domain.OffenderTransactionRow `json:"transactions"`
	}
	path := fmt.Sprintf("/finance/transactions/%d", transactionID)
	if err := c.getJSON(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Transactions, nil
}
