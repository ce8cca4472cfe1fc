package store

import (
	"context"

	"github.com/amishk599/jobhunter/internal/model"
)

// NopStore is a no-op store used in dry-run mode. It reports every listing as
// newly inserted and persists nothing.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Insert(_ context.Context, _ *model.Listing) (bool, error) { return true, nil }
