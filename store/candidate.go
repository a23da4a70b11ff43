package store

import "context"

// CandidateProfile represents a professional profile used for career coaching.
type CandidateProfile struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	FullName        string
	Title           string
	Company         string
	Location        string
	ExperienceYears int32
	Skills          []string // stored as a JSON array
	Summary         string
}

// FindCandidateProfile is the find condition for candidate profiles.
type FindCandidateProfile struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Limit     *int
}

func (s *Store) CreateCandidateProfile(ctx context.Context, create *CandidateProfile) (*CandidateProfile, error) {
	return s.driver.CreateCandidateProfile(ctx, create)
}

func (s *Store) ListCandidateProfiles(ctx context.Context, find *FindCandidateProfile) ([]*CandidateProfile, error) {
	return s.driver.ListCandidateProfiles(ctx, find)
}

// GetCandidateProfile gets a single profile matching the find condition.
func (s *Store) GetCandidateProfile(ctx context.Context, find *FindCandidateProfile) (*CandidateProfile, error) {
	list, err := s.driver.ListCandidateProfiles(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
