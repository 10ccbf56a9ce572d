package inventory

import (
	"context"
	"errors"
	"log/slog"

	"myitems/internal"
	"myitems/internal/pipeline"
)

// FetchService runs one full fetch cycle: resolve the personnel
// identifier, pull both inventory sources, aggregate. No retries; a
// manual refresh re-runs the whole sequence.
type FetchService struct {
	client *Client
	logger *slog.Logger
}

type FetchResult struct {
	PersonnelID int64
	Items       []internal.NormalizedItem
	// Tolerated per-source failures; nil when the source answered.
	SchoolErr error
	DCPErr    error
}

func NewFetchService(client *Client, logger *slog.Logger) *FetchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchService{client: client, logger: logger}
}

// FetchAssigned builds the aggregated item list for the current user.
// Failed identity resolution degrades to an empty result. A non-OK
// status from either source contributes zero items and is logged; only
// transport failures surface as errors.
func (s *FetchService) FetchAssigned(ctx context.Context) (FetchResult, error) {
	personnelID, err := s.client.ResolvePersonnelID(ctx)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn("personnel lookup rejected", "status", statusErr.StatusCode)
			return FetchResult{}, nil
		}
		return FetchResult{}, err
	}
	if personnelID == 0 {
		s.logger.Info("no personnel identity resolved, showing no items")
		return FetchResult{}, nil
	}

	result := FetchResult{PersonnelID: personnelID}

	school, err := s.client.FetchSchoolItems(ctx)
	if err != nil {
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			return FetchResult{}, err
		}
		s.logger.Warn("school inventory fetch failed", "status", statusErr.StatusCode)
		result.SchoolErr = err
		school = nil
	}

	dcp, err := s.client.FetchDCPItems(ctx, personnelID)
	if err != nil {
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			return FetchResult{}, err
		}
		s.logger.Warn("dcp inventory fetch failed", "status", statusErr.StatusCode)
		result.DCPErr = err
		dcp = nil
	}

	result.Items = pipeline.Aggregate(personnelID, school, dcp)
	return result, nil
}
