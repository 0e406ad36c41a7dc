package store

import (
	"sync"

	"stakingScope/internal/model"
)

// ValidatorStore is the normalized table of validator records keyed by
// operator address. Only the fetch coordinator and explicit Clear calls
// mutate it; every mutation bumps the revision counter that selector
// memoization keys on.
type ValidatorStore struct {
	mu        sync.RWMutex
	status    Status
	lastErr   error
	byAddress map[string]model.Validator
	addresses []string
	revision  uint64
}

func NewValidatorStore() *ValidatorStore {
	return &ValidatorStore{
		byAddress: make(map[string]model.Validator),
	}
}

// Upsert overwrites the record for each validator's address. The ordered
// address index gains an entry only for addresses not already present.
func (s *ValidatorStore) Upsert(validators ...model.Validator) {
	if len(validators) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, validator := range validators {
		if _, ok := s.byAddress[validator.Address]; !ok {
			s.addresses = append(s.addresses, validator.Address)
		}
		s.byAddress[validator.Address] = validator
	}
	s.revision++
}

// ByAddress returns a copy of the stored validator, or false on a miss.
func (s *ValidatorStore) ByAddress(address string) (model.Validator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	validator, ok := s.byAddress[address]
	return validator, ok
}

// Addresses returns the ordered address index.
func (s *ValidatorStore) Addresses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.addresses))
	copy(out, s.addresses)
	return out
}

func (s *ValidatorStore) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.revision++
}

// SetLastErr records the outcome of the most recent fetch attempt; nil
// marks it successful.
func (s *ValidatorStore) SetLastErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	s.revision++
}

func (s *ValidatorStore) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *ValidatorStore) LastErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *ValidatorStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Clear resets the store to its initial empty state.
func (s *ValidatorStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusIdle
	s.lastErr = nil
	s.byAddress = make(map[string]model.Validator)
	s.addresses = nil
	s.revision++
}
