package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Validator is the normalized record for an on-chain validator. Identity is
// the operator address; a re-fetch replaces the whole record.
type Validator struct {
	Address string          `json:"address"`
	Moniker string          `json:"moniker"`
	APR     decimal.Decimal `json:"apr"`
	Tokens  decimal.Decimal `json:"tokens"`
}

// Delegation is an account's active staked amount with one validator,
// denominated in base units of one asset.
type Delegation struct {
	AssetID          string          `json:"asset_id"`
	Amount           decimal.Decimal `json:"amount"`
	ValidatorAddress string          `json:"validator_address"`
}

// UndelegationEntry is a single unbonding tranche with its completion time.
type UndelegationEntry struct {
	AssetID        string          `json:"asset_id"`
	Amount         decimal.Decimal `json:"amount"`
	CompletionTime time.Time       `json:"completion_time"`
}

// Undelegation groups unbonding entries under the validator they leave.
type Undelegation struct {
	ValidatorAddress string              `json:"validator_address"`
	Entries          []UndelegationEntry `json:"entries"`
}

// Reward is an accrued amount for one asset, in base units.
type Reward struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// ValidatorReward groups an account's accrued rewards under one validator.
// At most one Reward per asset id; readers take the first match.
type ValidatorReward struct {
	ValidatorAddress string   `json:"validator_address"`
	Rewards          []Reward `json:"rewards"`
}

// StakingRecord is the per-account staking snapshot owned by the staking
// store, keyed there by account specifier.
type StakingRecord struct {
	Delegations   []Delegation      `json:"delegations"`
	Undelegations []Undelegation    `json:"undelegations"`
	Rewards       []ValidatorReward `json:"rewards"`
}
