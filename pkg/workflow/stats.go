package workflow

import (
	"github.com/apex/log"
	"github.com/heritage-graph/sattal/pkg/hgdb/stor"
)

// StatsRefresher recomputes a contributor's aggregates after every
// workflow event touching one of their entities.
type StatsRefresher struct {
	userStatsStor stor.UserStatsStor
}

func NewStatsRefresher(userStatsStor stor.UserStatsStor) *StatsRefresher {
	return &StatsRefresher{userStatsStor: userStatsStor}
}

func (r *StatsRefresher) HandleEvent(event Event) {
	if _, err := r.userStatsStor.RecomputeStatsForUser(event.Entity.ContributorID); err != nil {
		log.Errorf("failed recomputing stats for user %d: %s", event.Entity.ContributorID, err)
	}
}
