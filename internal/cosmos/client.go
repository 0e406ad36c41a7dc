package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a minimal Cosmos SDK LCD (REST) API client covering the staking
// and distribution queries the adapter needs.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
}

// ClientConfig holds the LCD endpoint and transport settings.
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("lcd base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
	}, nil
}

type validatorResponse struct {
	Validator struct {
		OperatorAddress string `json:"operator_address"`
		Description     struct {
			Moniker string `json:"moniker"`
		} `json:"description"`
		Tokens     string `json:"tokens"`
		Commission struct {
			CommissionRates struct {
				Rate string `json:"rate"`
			} `json:"commission_rates"`
		} `json:"commission"`
	} `json:"validator"`
}

type delegationsResponse struct {
	DelegationResponses []struct {
		Delegation struct {
			DelegatorAddress string `json:"delegator_address"`
			ValidatorAddress string `json:"validator_address"`
		} `json:"delegation"`
		Balance struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"balance"`
	} `json:"delegation_responses"`
}

type unbondingResponse struct {
	UnbondingResponses []struct {
		ValidatorAddress string `json:"validator_address"`
		Entries          []struct {
			CompletionTime time.Time `json:"completion_time"`
			Balance        string    `json:"balance"`
		} `json:"entries"`
	} `json:"unbonding_responses"`
}

type rewardsResponse struct {
	Rewards []struct {
		ValidatorAddress string `json:"validator_address"`
		Reward           []struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"reward"`
	} `json:"rewards"`
}

// validator queries one validator by operator address.
func (c *Client) validator(ctx context.Context, validatorAddress string) (validatorResponse, error) {
	var out validatorResponse
	path := fmt.Sprintf("/cosmos/staking/v1beta1/validators/%s", validatorAddress)
	err := c.get(ctx, path, &out)
	return out, err
}

// delegations queries all active delegations of one delegator.
func (c *Client) delegations(ctx context.Context, delegatorAddress string) (delegationsResponse, error) {
	var out delegationsResponse
	path := fmt.Sprintf("/cosmos/staking/v1beta1/delegations/%s", delegatorAddress)
	err := c.get(ctx, path, &out)
	return out, err
}

// unbondingDelegations queries all in-flight undelegations of one delegator.
func (c *Client) unbondingDelegations(ctx context.Context, delegatorAddress string) (unbondingResponse, error) {
	var out unbondingResponse
	path := fmt.Sprintf("/cosmos/staking/v1beta1/delegators/%s/unbonding_delegations", delegatorAddress)
	err := c.get(ctx, path, &out)
	return out, err
}

// rewards queries all accrued distribution rewards of one delegator.
func (c *Client) rewards(ctx context.Context, delegatorAddress string) (rewardsResponse, error) {
	var out rewardsResponse
	path := fmt.Sprintf("/cosmos/distribution/v1beta1/delegators/%s/rewards", delegatorAddress)
	err := c.get(ctx, path, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return withRetry(ctx, c.maxRetries, c.retryBackoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("making request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	})
}
