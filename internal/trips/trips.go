// Package trips reads the denormalized trip history produced by the
// server-side aggregation procedure.
package trips

import (
	"context"

	"github.com/drujkomax/yoldosh-go/internal/backend"
	"github.com/drujkomax/yoldosh-go/pkg/models"
)

const historyProcedure = "get_user_trip_history"

// Service fetches trip history for one user.
type Service struct {
	client *backend.Client
}

// NewService creates a trip history service.
func NewService(client *backend.Client) *Service {
	return &Service{client: client}
}

// History invokes the aggregation procedure with the user id and returns
// the denormalized trip list.
func (s *Service) History(ctx context.Context, userID string) ([]models.Trip, error) {
	var trips []models.Trip
	err := s.client.RPC(ctx, historyProcedure, map[string]string{"p_user_id": userID}, &trips)
	if err != nil {
		return nil, err
	}
	return trips, nil
}
