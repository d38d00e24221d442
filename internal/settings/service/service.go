// Package service manages typed application settings behind a key registry.
package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"montagehub_backend/internal/settings/repository"
	"montagehub_backend/platform/apperr"
)

// Validator checks a candidate value before it is stored. Returning an error
// rejects the write; stored values are never validated on read.
type Validator func(raw []byte) error

// Service exposes read and write access to registered settings. Only keys
// registered by a module can be read or written, so the settings table never
// accumulates orphan entries.
type Service struct {
	store repository.Store

	mu         sync.RWMutex
	validators map[string]Validator
}

func NewService(store repository.Store) *Service {
	return &Service{
		store:      store,
		validators: make(map[string]Validator),
	}
}

// RegisterKey declares a setting key. The validator may be nil for
// free-form values.
func (s *Service) RegisterKey(key string, validate Validator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validators[key] = validate
}

// Keys returns the registered setting keys, sorted.
func (s *Service) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.validators))
	for key := range s.validators {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Service) known(key string) (Validator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	validate, ok := s.validators[key]
	return validate, ok
}

// Get returns the stored raw value for a registered key.
func (s *Service) Get(ctx context.Context, key string) ([]byte, error) {
	if _, ok := s.known(key); !ok {
		return nil, apperr.NotFound("unknown setting: " + key)
	}
	return s.store.Get(ctx, key)
}

// Set validates and stores a value for a registered key. The raw value must
// be valid JSON even when no validator is registered.
func (s *Service) Set(ctx context.Context, key string, raw []byte) error {
	validate, ok := s.known(key)
	if !ok {
		return apperr.NotFound("unknown setting: " + key)
	}
	if !json.Valid(raw) {
		return apperr.Validation("setting value must be valid JSON")
	}
	if validate != nil {
		if err := validate(raw); err != nil {
			return apperr.Validation(err.Error())
		}
	}
	return s.store.Upsert(ctx, key, raw)
}
