package store

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"stakingScope/internal/model"
)

func testStakingRecord(validator string) model.StakingRecord {
	return model.StakingRecord{
		Delegations: []model.Delegation{
			{AssetID: "cosmos:cosmoshub-4/slip44:118", Amount: decimal.RequireFromString("2500000"), ValidatorAddress: validator},
		},
	}
}

func TestStakingStoreUpsertReplacesRecord(t *testing.T) {
	s := NewStakingStore()
	account := "cosmos:cosmoshub-4:cosmos1abc"

	s.Upsert(account, testStakingRecord("valoper1"))
	s.Upsert(account, testStakingRecord("valoper2"))

	record, ok := s.ByAccount(account)
	if !ok {
		t.Fatalf("expected record for %s", account)
	}
	if len(record.Delegations) != 1 || record.Delegations[0].ValidatorAddress != "valoper2" {
		t.Fatalf("record not replaced: %+v", record.Delegations)
	}

	if got := s.Accounts(); len(got) != 1 || got[0] != account {
		t.Fatalf("accounts mismatch: %v", got)
	}
}

func TestStakingStoreMissReturnsFalse(t *testing.T) {
	s := NewStakingStore()
	if _, ok := s.ByAccount("missing"); ok {
		t.Fatalf("expected miss for unknown account")
	}
}

func TestStakingStoreClear(t *testing.T) {
	s := NewStakingStore()
	s.Upsert("cosmos:cosmoshub-4:cosmos1abc", testStakingRecord("valoper1"))
	s.SetStatus(StatusReady)
	s.SetLastErr(errors.New("boom"))
	before := s.Revision()

	s.Clear()

	if s.Status() != StatusIdle {
		t.Fatalf("status not reset: %s", s.Status())
	}
	if s.LastErr() != nil {
		t.Fatalf("last error not cleared")
	}
	if got := s.Accounts(); len(got) != 0 {
		t.Fatalf("accounts not emptied: %v", got)
	}
	if s.Revision() <= before {
		t.Fatalf("revision did not bump on clear")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusReady:   "ready",
		Status(99):    "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Fatalf("status string: got %s, want %s", got, want)
		}
	}
}
