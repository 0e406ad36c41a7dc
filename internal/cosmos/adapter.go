package cosmos

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stakingScope/internal/bignumber"
	"stakingScope/internal/fetch"
	"stakingScope/internal/model"
)

// AdapterConfig scopes an adapter to one chain. AssetID is the asset the
// chain stakes in; all delegation, unbonding, and reward amounts map to it
// (single staking denom per chain). ChainAPR is the network-wide nominal
// staking rate; a validator's APR is ChainAPR reduced by its commission.
type AdapterConfig struct {
	ChainID  string
	AssetID  string
	ChainAPR decimal.Decimal
}

// Adapter serves validator and per-account staking data for one Cosmos SDK
// chain through its LCD endpoint.
type Adapter struct {
	cfg    AdapterConfig
	client *Client
}

func NewAdapter(cfg AdapterConfig, client *Client) (*Adapter, error) {
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain id is required")
	}
	if cfg.AssetID == "" {
		return nil, fmt.Errorf("asset id is required")
	}
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	return &Adapter{cfg: cfg, client: client}, nil
}

// GetValidator fetches one validator and normalizes it into the store shape.
func (a *Adapter) GetValidator(ctx context.Context, address string) (model.Validator, error) {
	resp, err := a.client.validator(ctx, address)
	if err != nil {
		return model.Validator{}, fmt.Errorf("get validator %s: %w", address, err)
	}

	commission := bignumber.BNOrZero(resp.Validator.Commission.CommissionRates.Rate)
	apr := a.cfg.ChainAPR.Mul(decimal.NewFromInt(1).Sub(commission))

	return model.Validator{
		Address: resp.Validator.OperatorAddress,
		Moniker: resp.Validator.Description.Moniker,
		APR:     apr,
		Tokens:  bignumber.BNOrZero(resp.Validator.Tokens),
	}, nil
}

// GetStakingData fetches the account's delegations, undelegations, and
// rewards and assembles them into one staking record.
func (a *Adapter) GetStakingData(ctx context.Context, accountSpecifier string) (model.StakingRecord, error) {
	address := accountAddress(accountSpecifier)
	if address == "" {
		return model.StakingRecord{}, fmt.Errorf("invalid account specifier: %s", accountSpecifier)
	}

	delegations, err := a.client.delegations(ctx, address)
	if err != nil {
		return model.StakingRecord{}, fmt.Errorf("get delegations %s: %w", address, err)
	}
	unbonding, err := a.client.unbondingDelegations(ctx, address)
	if err != nil {
		return model.StakingRecord{}, fmt.Errorf("get unbonding delegations %s: %w", address, err)
	}
	rewards, err := a.client.rewards(ctx, address)
	if err != nil {
		return model.StakingRecord{}, fmt.Errorf("get rewards %s: %w", address, err)
	}

	record := model.StakingRecord{}
	for _, resp := range delegations.DelegationResponses {
		record.Delegations = append(record.Delegations, model.Delegation{
			AssetID:          a.cfg.AssetID,
			Amount:           bignumber.BNOrZero(resp.Balance.Amount),
			ValidatorAddress: resp.Delegation.ValidatorAddress,
		})
	}
	for _, resp := range unbonding.UnbondingResponses {
		undelegation := model.Undelegation{ValidatorAddress: resp.ValidatorAddress}
		for _, entry := range resp.Entries {
			undelegation.Entries = append(undelegation.Entries, model.UndelegationEntry{
				AssetID:        a.cfg.AssetID,
				Amount:         bignumber.BNOrZero(entry.Balance),
				CompletionTime: entry.CompletionTime,
			})
		}
		record.Undelegations = append(record.Undelegations, undelegation)
	}
	for _, resp := range rewards.Rewards {
		if len(resp.Reward) == 0 {
			continue
		}
		// single staking denom per chain: take the first reward coin
		record.Rewards = append(record.Rewards, model.ValidatorReward{
			ValidatorAddress: resp.ValidatorAddress,
			Rewards: []model.Reward{{
				AssetID: a.cfg.AssetID,
				Amount:  bignumber.BNOrZero(resp.Reward[0].Amount),
			}},
		})
	}

	return record, nil
}

// accountAddress extracts the bech32 address from a chain-qualified account
// specifier of the form "namespace:reference:address".
func accountAddress(accountSpecifier string) string {
	idx := strings.LastIndex(accountSpecifier, ":")
	if idx < 0 {
		return accountSpecifier
	}
	return accountSpecifier[idx+1:]
}

// Registry maps chain ids to their adapters. It satisfies the fetch
// coordinator's registry contract.
type Registry struct {
	adapters map[string]*Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]*Adapter)}
}

func (r *Registry) Register(adapter *Adapter) {
	r.adapters[adapter.cfg.ChainID] = adapter
}

// ByChainID resolves the adapter registered for the chain id.
func (r *Registry) ByChainID(chainID string) (fetch.Adapter, error) {
	adapter, ok := r.adapters[chainID]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for chain %s", chainID)
	}
	return adapter, nil
}
