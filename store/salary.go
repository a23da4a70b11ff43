package store

import "context"

// SalaryObservationStatus is assigned once at ingestion and never silently
// changed afterwards.
type SalaryObservationStatus string

const (
	SalaryStatusValid   SalaryObservationStatus = "valid"
	SalaryStatusInvalid SalaryObservationStatus = "invalid"
)

// SalaryObservation is a single submitted salary data point. Amounts are
// monthly gross in MAD. Invalid observations are kept but never chunked
// or embedded.
type SalaryObservation struct {
	ID        int32
	UID       string
	CreatedTs int64

	JobTitle        string
	RawLocation     string
	City            string // empty when only the country could be resolved
	Country         string
	Market          string
	ExperienceYears int32
	ExperienceLevel string
	Amount          float64
	EstimatedMin    float64
	EstimatedMax    float64
	Status          SalaryObservationStatus
}

// FindSalaryObservation is the find condition for salary observations.
type FindSalaryObservation struct {
	ID       *int32
	UID      *string
	JobTitle *string
	City     *string
	Country  *string
	Market   *string
	Status   *SalaryObservationStatus
	Limit    *int
}

func (s *Store) CreateSalaryObservation(ctx context.Context, create *SalaryObservation) (*SalaryObservation, error) {
	return s.driver.CreateSalaryObservation(ctx, create)
}

func (s *Store) ListSalaryObservations(ctx context.Context, find *FindSalaryObservation) ([]*SalaryObservation, error) {
	return s.driver.ListSalaryObservations(ctx, find)
}

// GetSalaryObservation gets a single observation matching the find condition.
func (s *Store) GetSalaryObservation(ctx context.Context, find *FindSalaryObservation) (*SalaryObservation, error) {
	list, err := s.driver.ListSalaryObservations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
