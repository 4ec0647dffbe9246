package billpay

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Service
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Service)}
}

func (r *memoryRepository) Create(_ context.Context, service Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[service.ID]; exists {
		return errors.New("service exists")
	}
	r.storage[service.ID] = service
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.storage[id]
	if !ok {
		return Service{}, ErrNotFound
	}
	return service, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	services := make([]Service, 0, len(r.storage))
	for _, svc := range r.storage {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}
