package fetch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"stakingScope/internal/model"
	"stakingScope/internal/store"
)

// Adapter is the narrow chain-data contract the coordinator consumes.
type Adapter interface {
	GetValidator(ctx context.Context, address string) (model.Validator, error)
	GetStakingData(ctx context.Context, accountSpecifier string) (model.StakingRecord, error)
}

// Registry resolves a chain-specific adapter by chain id.
type Registry interface {
	ByChainID(chainID string) (Adapter, error)
}

// FetchError is the structured failure signal returned to callers when an
// adapter call fails. It is recorded as the store's LastErr and never thrown
// past the coordinator boundary.
type FetchError struct {
	Op      string
	ChainID string
	Key     string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s on %s: %v", e.Op, e.Key, e.ChainID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Coordinator drives validator and staking data retrieval through the chain
// adapter registry and writes results into the stores. Each fetch is
// one-shot, with no retry or backoff; concurrent fetches for the same key
// are coalesced so the adapter sees at most one in-flight request per key.
type Coordinator struct {
	registry   Registry
	validators *store.ValidatorStore
	staking    *store.StakingStore
	logger     *zap.Logger
	group      singleflight.Group
}

func NewCoordinator(registry Registry, validators *store.ValidatorStore, staking *store.StakingStore, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		registry:   registry,
		validators: validators,
		staking:    staking,
		logger:     logger,
	}
}

// FetchValidator retrieves one validator and upserts it into the validator
// store. The store ends in StatusReady regardless of outcome; LastErr holds
// the failure, if any, of the most recent attempt.
func (c *Coordinator) FetchValidator(ctx context.Context, chainID, validatorAddress string) (model.Validator, error) {
	key := "validator:" + chainID + ":" + validatorAddress

	result, err, _ := c.group.Do(key, func() (any, error) {
		c.validators.SetStatus(store.StatusLoading)
		defer c.validators.SetStatus(store.StatusReady)

		adapter, err := c.registry.ByChainID(chainID)
		if err != nil {
			return model.Validator{}, c.failValidator("fetch validator", chainID, validatorAddress, err)
		}

		validator, err := adapter.GetValidator(ctx, validatorAddress)
		if err != nil {
			return model.Validator{}, c.failValidator("fetch validator", chainID, validatorAddress, err)
		}

		c.validators.Upsert(validator)
		c.validators.SetLastErr(nil)
		return validator, nil
	})
	if err != nil {
		return model.Validator{}, err
	}
	return result.(model.Validator), nil
}

// FetchStakingData retrieves one account's staking record and upserts it
// into the staking store, under the same lifecycle as FetchValidator.
func (c *Coordinator) FetchStakingData(ctx context.Context, chainID, accountSpecifier string) (model.StakingRecord, error) {
	key := "staking:" + chainID + ":" + accountSpecifier

	result, err, _ := c.group.Do(key, func() (any, error) {
		c.staking.SetStatus(store.StatusLoading)
		defer c.staking.SetStatus(store.StatusReady)

		adapter, err := c.registry.ByChainID(chainID)
		if err != nil {
			return model.StakingRecord{}, c.failStaking("fetch staking data", chainID, accountSpecifier, err)
		}

		record, err := adapter.GetStakingData(ctx, accountSpecifier)
		if err != nil {
			return model.StakingRecord{}, c.failStaking("fetch staking data", chainID, accountSpecifier, err)
		}

		c.staking.Upsert(accountSpecifier, record)
		c.staking.SetLastErr(nil)
		return record, nil
	})
	if err != nil {
		return model.StakingRecord{}, err
	}
	return result.(model.StakingRecord), nil
}

func (c *Coordinator) failValidator(op, chainID, key string, err error) *FetchError {
	fetchErr := &FetchError{Op: op, ChainID: chainID, Key: key, Err: err}
	c.logger.Error("fetch failed", zap.String("op", op), zap.String("chain_id", chainID), zap.String("key", key), zap.Error(err))
	c.validators.SetLastErr(fetchErr)
	return fetchErr
}

func (c *Coordinator) failStaking(op, chainID, key string, err error) *FetchError {
	fetchErr := &FetchError{Op: op, ChainID: chainID, Key: key, Err: err}
	c.logger.Error("fetch failed", zap.String("op", op), zap.String("chain_id", chainID), zap.String("key", key), zap.Error(err))
	c.staking.SetLastErr(fetchErr)
	return fetchErr
}
