package tier

import "context"

// userParticipation holds the distinct settled polls a user staked on and the
// subset they won.
type userParticipation struct {
	Played map[string]struct{}
	Won    map[string]struct{}
}

// aggregateParticipation derives per-user participation over the given
// settled polls. Counting is by distinct poll: multiple stake updates on one
// poll count once. Anonymous votes carry no user and are skipped; users with
// zero participation are absent from the result. A win is only counted for a
// poll the user actually staked on.
func (s *Service) aggregateParticipation(ctx context.Context, pollIDs []string, userID *string) (map[string]*userParticipation, error) {
	out := map[string]*userParticipation{}
	if len(pollIDs) == 0 {
		return out, nil
	}

	votes, err := s.Repo.ListStakedVotes(ctx, pollIDs, userID)
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v.UserID == nil || *v.UserID == "" {
			continue
		}
		p := out[*v.UserID]
		if p == nil {
			p = &userParticipation{Played: map[string]struct{}{}, Won: map[string]struct{}{}}
			out[*v.UserID] = p
		}
		p.Played[v.PollID] = struct{}{}
	}
	if len(out) == 0 {
		return out, nil
	}

	payouts, err := s.Repo.ListPayouts(ctx, pollIDs, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range payouts {
		p := out[rec.UserID]
		if p == nil {
			continue
		}
		if _, played := p.Played[rec.PollID]; !played {
			continue
		}
		p.Won[rec.PollID] = struct{}{}
	}
	return out, nil
}
