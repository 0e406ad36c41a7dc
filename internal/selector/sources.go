package selector

import (
	"sync"

	"stakingScope/internal/model"
)

// MarketSource supplies fiat prices per asset id, refreshed out of band.
// Revision must change whenever any price changes.
type MarketSource interface {
	Price(assetID string) (model.MarketData, bool)
	Revision() uint64
}

// AssetSource supplies asset-registry records per asset id.
type AssetSource interface {
	Asset(assetID string) (model.Asset, bool)
	Revision() uint64
}

// PortfolioSource supplies per-account portfolio views and the fee asset
// used when valuing an account's delegations in fiat.
type PortfolioSource interface {
	Account(accountSpecifier string) (model.PortfolioAccount, bool)
	Accounts() []string
	FeeAssetID(accountSpecifier string) (string, bool)
	Revision() uint64
}

// MarketMap is a map-backed MarketSource. Replace swaps the whole mapping
// and bumps the revision.
type MarketMap struct {
	mu       sync.RWMutex
	prices   map[string]model.MarketData
	revision uint64
}

func NewMarketMap() *MarketMap {
	return &MarketMap{prices: make(map[string]model.MarketData)}
}

func (m *MarketMap) Replace(prices map[string]model.MarketData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prices == nil {
		prices = make(map[string]model.MarketData)
	}
	m.prices = prices
	m.revision++
}

func (m *MarketMap) Price(assetID string) (model.MarketData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.prices[assetID]
	return data, ok
}

func (m *MarketMap) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// AssetMap is a map-backed AssetSource.
type AssetMap struct {
	mu       sync.RWMutex
	assets   map[string]model.Asset
	revision uint64
}

func NewAssetMap() *AssetMap {
	return &AssetMap{assets: make(map[string]model.Asset)}
}

func (m *AssetMap) Replace(assets map[string]model.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if assets == nil {
		assets = make(map[string]model.Asset)
	}
	m.assets = assets
	m.revision++
}

func (m *AssetMap) Asset(assetID string) (model.Asset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	asset, ok := m.assets[assetID]
	return asset, ok
}

func (m *AssetMap) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// PortfolioMap is a map-backed PortfolioSource with a per-account fee asset
// mapping.
type PortfolioMap struct {
	mu        sync.RWMutex
	accounts  map[string]model.PortfolioAccount
	feeAssets map[string]string
	revision  uint64
}

func NewPortfolioMap() *PortfolioMap {
	return &PortfolioMap{
		accounts:  make(map[string]model.PortfolioAccount),
		feeAssets: make(map[string]string),
	}
}

func (m *PortfolioMap) Replace(accounts map[string]model.PortfolioAccount, feeAssets map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if accounts == nil {
		accounts = make(map[string]model.PortfolioAccount)
	}
	if feeAssets == nil {
		feeAssets = make(map[string]string)
	}
	m.accounts = accounts
	m.feeAssets = feeAssets
	m.revision++
}

func (m *PortfolioMap) Account(accountSpecifier string) (model.PortfolioAccount, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[accountSpecifier]
	return account, ok
}

func (m *PortfolioMap) Accounts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.accounts))
	for account := range m.accounts {
		out = append(out, account)
	}
	return out
}

func (m *PortfolioMap) FeeAssetID(accountSpecifier string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assetID, ok := m.feeAssets[accountSpecifier]
	return assetID, ok
}

func (m *PortfolioMap) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}
