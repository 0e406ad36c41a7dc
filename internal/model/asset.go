package model

import "github.com/shopspring/decimal"

// Asset is an asset-registry record. Precision is the number of decimal
// places between base units and display units; Slip44 derives the token
// address used in merged opportunity views.
type Asset struct {
	AssetID   string `json:"asset_id"`
	ChainID   string `json:"chain_id"`
	Chain     string `json:"chain"`
	Symbol    string `json:"symbol"`
	Precision int    `json:"precision"`
	Slip44    uint32 `json:"slip44"`
}

// MarketData carries the fiat price for one asset, refreshed out of band.
type MarketData struct {
	Price decimal.Decimal `json:"price"`
}

// PortfolioAccount is the read-only per-account view supplied by the
// portfolio collaborator.
type PortfolioAccount struct {
	ValidatorIDs []string      `json:"validator_ids"`
	StakingData  StakingRecord `json:"staking_data"`
}
