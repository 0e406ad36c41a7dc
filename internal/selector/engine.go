package selector

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"stakingScope/internal/bignumber"
	"stakingScope/internal/model"
	"stakingScope/internal/store"
)

// ErrUnknownPrecision reports a fiat conversion attempted for an asset id
// the asset registry does not know. Conversion requires the precision, so
// this is a hard failure rather than a silent zero.
var ErrUnknownPrecision = errors.New("unknown asset precision")

// Engine computes derived views over the validator and staking stores plus
// the market, asset, and portfolio collaborators. Every derivation is a pure
// read; results are memoized per argument tuple and invalidated by the
// revision counters of the inputs the derivation reads.
type Engine struct {
	validators *store.ValidatorStore
	staking    *store.StakingStore
	market     MarketSource
	assets     AssetSource
	portfolio  PortfolioSource

	mu   sync.Mutex
	memo map[string]memoEntry
}

type inputRevs struct {
	validators uint64
	staking    uint64
	market     uint64
	assets     uint64
	portfolio  uint64
}

type memoEntry struct {
	revs  inputRevs
	value any
}

func NewEngine(validators *store.ValidatorStore, staking *store.StakingStore, market MarketSource, assets AssetSource, portfolio PortfolioSource) *Engine {
	return &Engine{
		validators: validators,
		staking:    staking,
		market:     market,
		assets:     assets,
		portfolio:  portfolio,
		memo:       make(map[string]memoEntry),
	}
}

// memoized returns the cached value for key while revs is unchanged. A
// recomputed value that is structurally equal to the previous one keeps the
// previous identity, so reference-keyed consumers see a stable result.
func (e *Engine) memoized(key string, revs inputRevs, compute func() any) any {
	e.mu.Lock()
	entry, ok := e.memo[key]
	e.mu.Unlock()
	if ok && entry.revs == revs {
		return entry.value
	}

	// compute outside the lock: derivations may read other memoized
	// derivations
	value := compute()

	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.memo[key]; ok {
		if prev.revs == revs {
			return prev.value
		}
		if reflect.DeepEqual(prev.value, value) {
			value = prev.value
		}
	}
	e.memo[key] = memoEntry{revs: revs, value: value}
	return value
}

// SingleValidator returns the validator record for the address, or nil when
// the store has no such validator.
func (e *Engine) SingleValidator(address string) *model.Validator {
	key := "validator|" + address
	revs := inputRevs{validators: e.validators.Revision()}

	value := e.memoized(key, revs, func() any {
		validator, ok := e.validators.ByAddress(address)
		if !ok {
			return (*model.Validator)(nil)
		}
		return &validator
	})
	return value.(*model.Validator)
}

// DelegationTotalByAsset sums the account's delegated base units for one
// asset across all validators. No matching delegations yields "0".
func (e *Engine) DelegationTotalByAsset(accountSpecifier, assetID string) string {
	key := "delegation-total|" + accountSpecifier + "|" + assetID
	revs := inputRevs{staking: e.staking.Revision()}

	value := e.memoized(key, revs, func() any {
		record, _ := e.staking.ByAccount(accountSpecifier)
		total := decimal.Zero
		for _, delegation := range record.Delegations {
			if delegation.AssetID != assetID {
				continue
			}
			total = total.Add(delegation.Amount)
		}
		return total.String()
	})
	return value.(string)
}

// DelegationsByAsset maps validator address to the account's delegated base
// units for one asset.
func (e *Engine) DelegationsByAsset(accountSpecifier, assetID string) map[string]string {
	key := "delegations-by-asset|" + accountSpecifier + "|" + assetID
	revs := inputRevs{staking: e.staking.Revision()}

	value := e.memoized(key, revs, func() any {
		record, _ := e.staking.ByAccount(accountSpecifier)
		amounts := make(map[string]decimal.Decimal)
		order := make([]string, 0, len(record.Delegations))
		for _, delegation := range record.Delegations {
			if delegation.AssetID != assetID {
				continue
			}
			if _, ok := amounts[delegation.ValidatorAddress]; !ok {
				order = append(order, delegation.ValidatorAddress)
			}
			amounts[delegation.ValidatorAddress] = amounts[delegation.ValidatorAddress].Add(delegation.Amount)
		}

		out := make(map[string]string, len(order))
		for _, validator := range order {
			out[validator] = amounts[validator].String()
		}
		return out
	})
	return value.(map[string]string)
}

// DelegationAmount returns the account's delegated base units with one
// validator for one asset, "0" when there is no such delegation.
func (e *Engine) DelegationAmount(accountSpecifier, assetID, validatorAddress string) string {
	amounts := e.DelegationsByAsset(accountSpecifier, assetID)
	amount, ok := amounts[validatorAddress]
	if !ok {
		return "0"
	}
	return amount
}

// UnbondingEntriesByValidator returns the account's unbonding entries with
// one validator, nil when the validator has none.
func (e *Engine) UnbondingEntriesByValidator(accountSpecifier, validatorAddress string) []model.UndelegationEntry {
	key := "unbonding-entries|" + accountSpecifier + "|" + validatorAddress
	revs := inputRevs{staking: e.staking.Revision()}

	value := e.memoized(key, revs, func() any {
		record, _ := e.staking.ByAccount(accountSpecifier)
		for _, undelegation := range record.Undelegations {
			if undelegation.ValidatorAddress != validatorAddress {
				continue
			}
			entries := make([]model.UndelegationEntry, len(undelegation.Entries))
			copy(entries, undelegation.Entries)
			return entries
		}
		return []model.UndelegationEntry(nil)
	})
	return value.([]model.UndelegationEntry)
}

// UnbondingEntriesByAsset buckets the account's unbonding entries for one
// asset under each validator that appears in the source. A validator whose
// entries all miss the asset keeps an empty bucket.
func (e *Engine) UnbondingEntriesByAsset(accountSpecifier, assetID string) map[string][]model.UndelegationEntry {
	key := "unbonding-by-asset|" + accountSpecifier + "|" + assetID
	revs := inputRevs{staking: e.staking.Revision()}

	value := e.memoized(key, revs, func() any {
		record, _ := e.staking.ByAccount(accountSpecifier)
		out := make(map[string][]model.UndelegationEntry, len(record.Undelegations))
		for _, undelegation := range record.Undelegations {
			filtered := make([]model.UndelegationEntry, 0)
			for _, entry := range undelegation.Entries {
				if entry.AssetID == assetID {
					filtered = append(filtered, entry)
				}
			}
			out[undelegation.ValidatorAddress] = filtered
		}
		return out
	})
	return value.(map[string][]model.UndelegationEntry)
}

// UnbondingAmount sums the account's unbonding base units with one validator
// for one asset, "0" when there are no matching entries.
func (e *Engine) UnbondingAmount(accountSpecifier, assetID, validatorAddress string) string {
	entries := e.UnbondingEntriesByAsset(accountSpecifier, assetID)[validatorAddress]
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}
	return total.String()
}

// TotalBondedAmount is the exact decimal sum of the delegated and unbonding
// base units for one validator and asset.
func (e *Engine) TotalBondedAmount(accountSpecifier, assetID, validatorAddress string) string {
	delegated := bignumber.BNOrZero(e.DelegationAmount(accountSpecifier, assetID, validatorAddress))
	unbonding := bignumber.BNOrZero(e.UnbondingAmount(accountSpecifier, assetID, validatorAddress))
	return delegated.Add(unbonding).String()
}

// RewardsByValidator flattens the account's reward items for one validator
// into a single sequence, preserving source order.
func (e *Engine) RewardsByValidator(accountSpecifier, validatorAddress string) []model.Reward {
	key := "rewards|" + accountSpecifier + "|" + validatorAddress
	revs := inputRevs{staking: e.staking.Revision()}

	value := e.memoized(key, revs, func() any {
		record, _ := e.staking.ByAccount(accountSpecifier)
		var out []model.Reward
		for _, validatorReward := range record.Rewards {
			if validatorReward.ValidatorAddress != validatorAddress {
				continue
			}
			out = append(out, validatorReward.Rewards...)
		}
		return out
	})
	return value.([]model.Reward)
}

// RewardAmount returns the account's accrued base units for one asset with
// one validator. First match wins; an absent entry yields "" (distinct from
// a present zero-valued reward).
func (e *Engine) RewardAmount(accountSpecifier, assetID, validatorAddress string) string {
	for _, reward := range e.RewardsByValidator(accountSpecifier, validatorAddress) {
		if reward.AssetID == assetID {
			return reward.Amount.String()
		}
	}
	return ""
}

type fiatResult struct {
	total decimal.Decimal
	err   error
}

// TotalStakingDelegationFiat values every portfolio account's aggregate
// delegation sum in fiat, using the account's fee asset for precision and
// price, and accumulates across accounts. An asset id missing from the
// registry is a hard failure.
func (e *Engine) TotalStakingDelegationFiat() (decimal.Decimal, error) {
	key := "total-delegation-fiat"
	revs := inputRevs{
		market:    e.market.Revision(),
		assets:    e.assets.Revision(),
		portfolio: e.portfolio.Revision(),
	}

	value := e.memoized(key, revs, func() any {
		total := decimal.Zero
		for _, accountSpecifier := range e.portfolio.Accounts() {
			account, ok := e.portfolio.Account(accountSpecifier)
			if !ok {
				continue
			}

			sum := decimal.Zero
			for _, delegation := range account.StakingData.Delegations {
				sum = sum.Add(delegation.Amount)
			}
			if sum.IsZero() {
				continue
			}

			feeAssetID, ok := e.portfolio.FeeAssetID(accountSpecifier)
			if !ok {
				continue
			}
			asset, ok := e.assets.Asset(feeAssetID)
			if !ok {
				return fiatResult{err: fmt.Errorf("%w: %s", ErrUnknownPrecision, feeAssetID)}
			}

			price := decimal.Zero
			if marketData, ok := e.market.Price(feeAssetID); ok {
				price = marketData.Price
			}
			total = total.Add(bignumber.FromBaseUnit(sum, asset.Precision).Mul(price))
		}
		return fiatResult{total: total}
	})

	result := value.(fiatResult)
	return result.total, result.err
}

type opportunityResult struct {
	opportunity *model.MergedStakingOpportunity
	err         error
}

// StakingOpportunity joins a validator record with the asset's chain, a
// token address derived from slip44, and the validator's fiat TVL. The
// result is recomputed on demand, never stored. A missing validator yields
// nil; a missing asset is a hard failure.
func (e *Engine) StakingOpportunity(validatorAddress, assetID string) (*model.MergedStakingOpportunity, error) {
	key := "opportunity|" + validatorAddress + "|" + assetID
	revs := inputRevs{
		validators: e.validators.Revision(),
		market:     e.market.Revision(),
		assets:     e.assets.Revision(),
	}

	value := e.memoized(key, revs, func() any {
		validator, ok := e.validators.ByAddress(validatorAddress)
		if !ok {
			return opportunityResult{}
		}
		asset, ok := e.assets.Asset(assetID)
		if !ok {
			return opportunityResult{err: fmt.Errorf("%w: %s", ErrUnknownPrecision, assetID)}
		}

		price := decimal.Zero
		if marketData, ok := e.market.Price(assetID); ok {
			price = marketData.Price
		}
		tvl := bignumber.FromBaseUnit(validator.Tokens, asset.Precision).Mul(price)

		return opportunityResult{opportunity: &model.MergedStakingOpportunity{
			Validator:    validator,
			TokenAddress: strconv.FormatUint(uint64(asset.Slip44), 10),
			AssetID:      assetID,
			Chain:        asset.Chain,
			TVL:          tvl.String(),
		}}
	})

	result := value.(opportunityResult)
	return result.opportunity, result.err
}

type activeOpportunityResult struct {
	opportunity *model.MergedActiveStakingOpportunity
	err         error
}

// ActiveStakingOpportunity is the StakingOpportunity join extended with the
// user's own delegated position with the validator, in display units and
// fiat.
func (e *Engine) ActiveStakingOpportunity(accountSpecifier, validatorAddress, assetID string) (*model.MergedActiveStakingOpportunity, error) {
	key := "active-opportunity|" + accountSpecifier + "|" + validatorAddress + "|" + assetID
	revs := inputRevs{
		validators: e.validators.Revision(),
		staking:    e.staking.Revision(),
		market:     e.market.Revision(),
		assets:     e.assets.Revision(),
	}

	value := e.memoized(key, revs, func() any {
		merged, err := e.StakingOpportunity(validatorAddress, assetID)
		if err != nil {
			return activeOpportunityResult{err: err}
		}
		if merged == nil {
			return activeOpportunityResult{}
		}
		asset, ok := e.assets.Asset(assetID)
		if !ok {
			return activeOpportunityResult{err: fmt.Errorf("%w: %s", ErrUnknownPrecision, assetID)}
		}

		price := decimal.Zero
		if marketData, ok := e.market.Price(assetID); ok {
			price = marketData.Price
		}

		delegated := bignumber.BNOrZero(e.DelegationAmount(accountSpecifier, assetID, validatorAddress))
		crypto := bignumber.FromBaseUnit(delegated, asset.Precision)

		return activeOpportunityResult{opportunity: &model.MergedActiveStakingOpportunity{
			MergedStakingOpportunity: *merged,
			CryptoAmount:             crypto.String(),
			FiatAmount:               crypto.Mul(price).String(),
		}}
	})

	result := value.(activeOpportunityResult)
	return result.opportunity, result.err
}
