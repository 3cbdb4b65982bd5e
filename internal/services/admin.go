package services

import (
	"context"
	"fmt"
	"log"

	"github.com/rushilkag/academic-qa-backend/internal/store"
	"github.com/rushilkag/academic-qa-backend/pkg/task"
)

// AdminService handles administrative operations like factory reset
type AdminService struct {
	Store store.Store
	Tasks *task.Manager
}

// NewAdminService creates admin service with its dependencies
func NewAdminService(s store.Store, tasks *task.Manager) *AdminService {
	return &AdminService{Store: s, Tasks: tasks}
}

// FactoryReset clears all stored data
func (s *AdminService) FactoryReset(ctx context.Context) error {
	log.Println("Starting factory reset - clearing all data")

	if err := s.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}

	// drop finished generation jobs too; in-flight ones keep running but
	// their questions are gone, so storing the draft will fail cleanly
	s.Tasks.CleanupOld(0)

	log.Println("Factory reset completed")
	return nil
}

// GetStats returns basic entity counts
func (s *AdminService) GetStats(ctx context.Context) (map[string]int, error) {
	stats, err := s.Store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}
	return stats, nil
}
