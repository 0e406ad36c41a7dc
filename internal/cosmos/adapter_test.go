package cosmos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	testValoper = "cosmosvaloper199mlc7fr6ll5t54w7tts7f4s0cvnqgc59nmuxf"
	testAccount = "cosmos:cosmoshub-4:cosmos1t5u0jfg3ljsjrh2m9e47d4ny2hea7eehxrzdgd"
	testAssetID = "cosmos:cosmoshub-4/slip44:118"
)

func newTestAdapter(t *testing.T, handler http.Handler) (*Adapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	adapter, err := NewAdapter(AdapterConfig{
		ChainID:  "cosmos:cosmoshub-4",
		AssetID:  testAssetID,
		ChainAPR: decimal.RequireFromString("0.16"),
	}, client)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter, server
}

func TestGetValidator(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/validators/"+testValoper, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"validator": {
				"operator_address": "` + testValoper + `",
				"description": {"moniker": "ShapeShift DAO"},
				"tokens": "111116552368924",
				"commission": {"commission_rates": {"rate": "0.100000000000000000"}}
			}
		}`))
	})
	adapter, _ := newTestAdapter(t, mux)

	validator, err := adapter.GetValidator(context.Background(), testValoper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if validator.Address != testValoper {
		t.Fatalf("address mismatch: %s", validator.Address)
	}
	if validator.Moniker != "ShapeShift DAO" {
		t.Fatalf("moniker mismatch: %s", validator.Moniker)
	}
	if validator.Tokens.String() != "111116552368924" {
		t.Fatalf("tokens mismatch: %s", validator.Tokens)
	}
	// 0.16 nominal rate less 10% commission
	if validator.APR.String() != "0.144" {
		t.Fatalf("apr mismatch: %s", validator.APR)
	}
}

func TestGetStakingData(t *testing.T) {
	delegator := "cosmos1t5u0jfg3ljsjrh2m9e47d4ny2hea7eehxrzdgd"
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/delegations/"+delegator, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"delegation_responses": [
				{
					"delegation": {"delegator_address": "` + delegator + `", "validator_address": "` + testValoper + `"},
					"balance": {"denom": "uatom", "amount": "2500000"}
				}
			]
		}`))
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/delegators/"+delegator+"/unbonding_delegations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"unbonding_responses": [
				{
					"validator_address": "` + testValoper + `",
					"entries": [{"completion_time": "2026-09-20T21:20:54.000Z", "balance": "250000"}]
				}
			]
		}`))
	})
	mux.HandleFunc("/cosmos/distribution/v1beta1/delegators/"+delegator+"/rewards", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"rewards": [
				{
					"validator_address": "` + testValoper + `",
					"reward": [{"denom": "uatom", "amount": "3463.556239550000000000"}]
				}
			]
		}`))
	})
	adapter, _ := newTestAdapter(t, mux)

	record, err := adapter.GetStakingData(context.Background(), testAccount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(record.Delegations) != 1 {
		t.Fatalf("delegations: got %d, want 1", len(record.Delegations))
	}
	if record.Delegations[0].AssetID != testAssetID {
		t.Fatalf("delegation asset: %s", record.Delegations[0].AssetID)
	}
	if record.Delegations[0].Amount.String() != "2500000" {
		t.Fatalf("delegation amount: %s", record.Delegations[0].Amount)
	}

	if len(record.Undelegations) != 1 || len(record.Undelegations[0].Entries) != 1 {
		t.Fatalf("undelegations: %+v", record.Undelegations)
	}
	if record.Undelegations[0].Entries[0].Amount.String() != "250000" {
		t.Fatalf("unbonding amount: %s", record.Undelegations[0].Entries[0].Amount)
	}

	if len(record.Rewards) != 1 || len(record.Rewards[0].Rewards) != 1 {
		t.Fatalf("rewards: %+v", record.Rewards)
	}
	if record.Rewards[0].Rewards[0].Amount.String() != "3463.55623955" {
		t.Fatalf("reward amount: %s", record.Rewards[0].Rewards[0].Amount)
	}
}

func TestClientRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/staking/v1beta1/validators/"+testValoper, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"validator": {"operator_address": "` + testValoper + `", "description": {"moniker": "x"}, "tokens": "1", "commission": {"commission_rates": {"rate": "0"}}}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		BaseURL:      server.URL,
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	adapter, err := NewAdapter(AdapterConfig{ChainID: "cosmos:cosmoshub-4", AssetID: testAssetID}, client)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	if _, err := adapter.GetValidator(context.Background(), testValoper); err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("calls: got %d, want 2", got)
	}
}

func TestAccountAddress(t *testing.T) {
	cases := map[string]string{
		testAccount:   "cosmos1t5u0jfg3ljsjrh2m9e47d4ny2hea7eehxrzdgd",
		"cosmos1bare": "cosmos1bare",
	}
	for input, want := range cases {
		if got := accountAddress(input); got != want {
			t.Fatalf("account address %s: got %s, want %s", input, got, want)
		}
	}
}

func TestRegistryUnknownChain(t *testing.T) {
	registry := NewRegistry()
	if _, err := registry.ByChainID("cosmos:unknown-1"); err == nil {
		t.Fatalf("expected error for unknown chain")
	}
}
