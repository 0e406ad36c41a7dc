package store

import (
	"sync"

	"stakingScope/internal/model"
)

// StakingStore holds per-account staking records keyed by account specifier
// (a chain-qualified account identity). An upsert replaces the whole record
// for that account.
type StakingStore struct {
	mu        sync.RWMutex
	status    Status
	lastErr   error
	byAccount map[string]model.StakingRecord
	revision  uint64
}

func NewStakingStore() *StakingStore {
	return &StakingStore{
		byAccount: make(map[string]model.StakingRecord),
	}
}

// Upsert replaces the staking record for the account specifier.
func (s *StakingStore) Upsert(accountSpecifier string, record model.StakingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byAccount[accountSpecifier] = record
	s.revision++
}

// ByAccount returns a copy of the account's staking record, or false on a miss.
func (s *StakingStore) ByAccount(accountSpecifier string) (model.StakingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byAccount[accountSpecifier]
	return record, ok
}

// Accounts returns the known account specifiers in unspecified order.
func (s *StakingStore) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byAccount))
	for account := range s.byAccount {
		out = append(out, account)
	}
	return out
}

func (s *StakingStore) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.revision++
}

func (s *StakingStore) SetLastErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	s.revision++
}

func (s *StakingStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *StakingStore) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *StakingStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Clear resets the store to its initial empty state.
func (s *StakingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusIdle
	s.lastErr = nil
	s.byAccount = make(map[string]model.StakingRecord)
	s.revision++
}
