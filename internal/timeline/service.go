package timeline

import "context"

// Service is the timeline entry point: validate, authorize, then
// aggregate. The guard runs before any source is queried, so an
// unauthorized request never touches the record stores.
type Service struct {
	guard *Guard
	agg   *Aggregator
}

// NewService wires the guard and aggregator into one entry point.
func NewService(guard *Guard, agg *Aggregator) *Service {
	return &Service{guard: guard, agg: agg}
}

// Timeline produces one feed page for the principal.
func (s *Service) Timeline(ctx context.Context, principal *Principal, raw RawQuery) (*Page, error) {
	q, err := ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, principal, q.ChildID); err != nil {
		return nil, err
	}
	return s.agg.Fetch(ctx, q)
}
