package billpay

import (
	"fmt"
	"time"
)

// Service represents a billable payee. It is rendered to clients as a
// zero-balance system pseudo-wallet.
type Service struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// AccountCode returns the posting account that collects payments for the
// service.
func (s Service) AccountCode() string {
	return fmt.Sprintf("service:%s", s.ID)
}
