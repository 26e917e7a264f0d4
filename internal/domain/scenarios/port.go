package scenarios

import "context"

// Repository port (interface untuk persistence)
// FindOneByOwnerAndID returns (nil, nil) when no owned record matches.
type Repository interface {
	Create(ctx context.Context, s *Scenario) error
	Update(ctx context.Context, s *Scenario) error
	FindAllByOwner(ctx context.Context, ownerID string) ([]*Scenario, error)
	FindOneByOwnerAndID(ctx context.Context, ownerID string, id ScenarioID) (*Scenario, error)
	Delete(ctx context.Context, ownerID string, id ScenarioID) error
}

// ReportArchive port (interface untuk penyimpanan laporan)
type ReportArchive interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}
