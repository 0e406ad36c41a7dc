package model

// MergedStakingOpportunity joins a validator with asset metadata and a
// fiat-valued TVL. It is computed per request and never stored.
type MergedStakingOpportunity struct {
	Validator

	TokenAddress string `json:"token_address"`
	AssetID      string `json:"asset_id"`
	Chain        string `json:"chain"`
	TVL          string `json:"tvl"`
}

// MergedActiveStakingOpportunity additionally carries the user's own position
// with the validator, in display units and fiat.
type MergedActiveStakingOpportunity struct {
	MergedStakingOpportunity

	CryptoAmount string `json:"crypto_amount"`
	FiatAmount   string `json:"fiat_amount"`
}
