package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cardlotlabs/lotsales_backend/config"
	"github.com/cardlotlabs/lotsales_backend/models"
)

// Dataset is the fully materialized in-memory batch. An upload replaces it
// whole; there is no incremental path.
type Dataset struct {
	ID       string
	FileName string
	LoadedAt time.Time
	Rows     []models.Row
}

// appState guards the current-dataset and pricing-context pointer swaps.
// The engine itself is single-writer batch semantics; the mutex exists only
// because gin serves requests concurrently.
type appState struct {
	mu      sync.RWMutex
	dataset *Dataset
	pricing *models.PricingContext
}

var state = &appState{pricing: models.NewPricingContext()}

func (s *appState) Dataset() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

func (s *appState) SetDataset(d *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = d
}

func (s *appState) Pricing() *models.PricingContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pricing
}

func (s *appState) SetPricing(p *models.PricingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pricing = p
}

// reloadPricing rebuilds the pricing context from storage after a cost edit.
// Derived views always recompute from scratch against the fresh context.
func reloadPricing(ctx context.Context) error {
	db := config.GetDB()
	if db == nil {
		return errors.New("database not connected")
	}
	pricing, err := models.LoadPricingContext(ctx, db)
	if err != nil {
		return err
	}
	state.SetPricing(pricing)
	return nil
}
