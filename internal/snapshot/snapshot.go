// Package snapshot loads externally produced staking fixtures: validator
// sets as JSONL, and staking records, market data, and asset registries as
// JSON maps. It only reads; nothing in this module persists session state.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"stakingScope/internal/model"
)

// LoadValidators reads one validator per JSONL line.
func LoadValidators(path string) ([]model.Validator, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open validators: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var validators []model.Validator
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var validator model.Validator
		if err := json.Unmarshal(line, &validator); err != nil {
			return nil, fmt.Errorf("parse validator line: %w", err)
		}
		validators = append(validators, validator)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read validators: %w", err)
	}

	return validators, nil
}

// LoadStakingRecords reads a JSON map of account specifier to staking record.
func LoadStakingRecords(path string) (map[string]model.StakingRecord, error) {
	out := make(map[string]model.StakingRecord)
	if err := loadJSON(path, &out); err != nil {
		return nil, fmt.Errorf("staking records: %w", err)
	}
	return out, nil
}

// LoadMarketData reads a JSON map of asset id to market data.
func LoadMarketData(path string) (map[string]model.MarketData, error) {
	out := make(map[string]model.MarketData)
	if err := loadJSON(path, &out); err != nil {
		return nil, fmt.Errorf("market data: %w", err)
	}
	return out, nil
}

// LoadAssets reads a JSON map of asset id to asset-registry record.
func LoadAssets(path string) (map[string]model.Asset, error) {
	out := make(map[string]model.Asset)
	if err := loadJSON(path, &out); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return out, nil
}

func loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
