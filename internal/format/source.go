package format

import (
	"context"

	"royale-meta/internal/api"
	"royale-meta/internal/constants"
	"royale-meta/internal/domain"
)

// Source glues the raw battle-log client and the ranked 1v1 filter into the
// single battle source the collector consumes.
type Source struct {
	client *api.CRClient
	filter Filter
}

func NewSource(client *api.CRClient) *Source {
	return &Source{client: client, filter: NewFilter()}
}

func (s *Source) QualifyingBattles(ctx context.Context, tag string) ([]domain.BattleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	raw, err := s.client.GetBattleLog(ctx, tag)
	if err != nil {
		return nil, err
	}
	return s.filter.Normalize(raw), nil
}
