package billpay

import (
	"time"

	"github.com/google/uuid"
)

// DefaultServices returns the starter catalogue used to seed development
// environments and fresh databases.
func DefaultServices() []Service {
	names := []string{"Electricity", "Water", "Internet", "Mobile Airtime"}
	now := time.Now().UTC()
	services := make([]Service, 0, len(names))
	for _, name := range names {
		services = append(services, Service{
			ID:        uuid.NewString(),
			Name:      name,
			IsActive:  true,
			CreatedAt: now,
		})
	}
	return services
}
