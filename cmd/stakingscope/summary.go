package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakingScope/internal/config"
	"stakingScope/internal/model"
	"stakingScope/internal/selector"
	"stakingScope/internal/snapshot"
	"stakingScope/internal/store"
)

type validatorSummary struct {
	Address         string `json:"address"`
	Moniker         string `json:"moniker"`
	APR             string `json:"apr"`
	DelegationBase  string `json:"delegation_base_units"`
	UnbondingBase   string `json:"unbonding_base_units"`
	TotalBondedBase string `json:"total_bonded_base_units"`
	RewardBase      string `json:"reward_base_units,omitempty"`
	TVL             string `json:"tvl"`
	CryptoAmount    string `json:"crypto_amount"`
	FiatAmount      string `json:"fiat_amount"`
}

type summaryOutput struct {
	Account         string             `json:"account"`
	AssetID         string             `json:"asset_id"`
	DelegationTotal string             `json:"delegation_total_base_units"`
	FiatTotal       string             `json:"fiat_total"`
	Validators      []validatorSummary `json:"validators"`
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.ValidatorsPath == "" || cfg.StakingPath == "" || cfg.MarketPath == "" || cfg.AssetsPath == "" {
		return fmt.Errorf("validators, staking, market, and assets paths are required")
	}
	if cfg.Account == "" {
		return fmt.Errorf("account specifier is required")
	}
	if cfg.AssetID == "" {
		return fmt.Errorf("asset id is required")
	}

	validators, err := snapshot.LoadValidators(cfg.ValidatorsPath)
	if err != nil {
		return err
	}
	stakingRecords, err := snapshot.LoadStakingRecords(cfg.StakingPath)
	if err != nil {
		return err
	}
	marketData, err := snapshot.LoadMarketData(cfg.MarketPath)
	if err != nil {
		return err
	}
	assets, err := snapshot.LoadAssets(cfg.AssetsPath)
	if err != nil {
		return err
	}

	validatorStore := store.NewValidatorStore()
	validatorStore.Upsert(validators...)
	validatorStore.SetStatus(store.StatusReady)

	stakingStore := store.NewStakingStore()
	for account, record := range stakingRecords {
		stakingStore.Upsert(account, record)
	}
	stakingStore.SetStatus(store.StatusReady)

	market := selector.NewMarketMap()
	market.Replace(marketData)

	assetMap := selector.NewAssetMap()
	assetMap.Replace(assets)

	portfolio := selector.NewPortfolioMap()
	accounts := make(map[string]model.PortfolioAccount, len(stakingRecords))
	feeAssets := make(map[string]string, len(stakingRecords))
	for account, record := range stakingRecords {
		accounts[account] = model.PortfolioAccount{
			ValidatorIDs: validatorStore.Addresses(),
			StakingData:  record,
		}
		feeAssets[account] = cfg.AssetID
	}
	portfolio.Replace(accounts, feeAssets)

	engine := selector.NewEngine(validatorStore, stakingStore, market, assetMap, portfolio)

	fiatTotal, err := engine.TotalStakingDelegationFiat()
	if err != nil {
		return err
	}

	out := summaryOutput{
		Account:         cfg.Account,
		AssetID:         cfg.AssetID,
		DelegationTotal: engine.DelegationTotalByAsset(cfg.Account, cfg.AssetID),
		FiatTotal:       fiatTotal.String(),
	}

	for _, address := range validatorStore.Addresses() {
		opportunity, err := engine.ActiveStakingOpportunity(cfg.Account, address, cfg.AssetID)
		if err != nil {
			return err
		}
		if opportunity == nil {
			continue
		}

		out.Validators = append(out.Validators, validatorSummary{
			Address:         address,
			Moniker:         opportunity.Moniker,
			APR:             opportunity.APR.String(),
			DelegationBase:  engine.DelegationAmount(cfg.Account, cfg.AssetID, address),
			UnbondingBase:   engine.UnbondingAmount(cfg.Account, cfg.AssetID, address),
			TotalBondedBase: engine.TotalBondedAmount(cfg.Account, cfg.AssetID, address),
			RewardBase:      engine.RewardAmount(cfg.Account, cfg.AssetID, address),
			TVL:             opportunity.TVL,
			CryptoAmount:    opportunity.CryptoAmount,
			FiatAmount:      opportunity.FiatAmount,
		})
	}

	logger.Info("summary computed",
		zap.String("account", cfg.Account),
		zap.String("asset", cfg.AssetID),
		zap.Int("validators", len(out.Validators)),
	)

	return printJSON(out)
}
