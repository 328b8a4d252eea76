// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/0xbrayo/whatdidyougetdone/internal/domain"
	"github.com/0xbrayo/whatdidyougetdone/internal/gateway"
)

const defaultWorkers = 5

// Aggregator is the use case that turns a user's raw event feed into a
// deduplicated, attributed entry list. It orchestrates the gateway calls and
// applies the domain decision rules; rendering is left to the report stage.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *logrus.Logger
	workers int
}

// NewAggregator creates a new Aggregator instance. workers bounds the
// concurrent relationship and stat lookups; values below one fall back to
// the default.
func NewAggregator(fetcher gateway.Fetcher, logger *logrus.Logger, workers int) *Aggregator {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		workers: workers,
	}
}

// Collect fetches the user's activity for the last `days` days and runs it
// through attribution and deduplication. The returned relationship map keys
// every repository the entries are attributed to.
//
// A failed event fetch aborts the whole run: a bad username or credential
// must not produce a partial report. Everything downstream fails open:
// a repository whose relationship cannot be resolved is treated as not a
// fork, and a commit whose stats cannot be fetched is kept without them.
func (a *Aggregator) Collect(ctx context.Context, username string, days int) ([]domain.Entry, map[string]domain.Relationship, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	activities, err := a.fetcher.FetchUserEvents(ctx, username, since)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debugf("fetched %d activities for %s", len(activities), username)

	rels := a.resolveRelationships(ctx, activities)
	included, wantStats := a.classify(activities, username, rels)
	a.fetchStats(ctx, wantStats)

	attributed := make([]domain.Activity, len(included))
	for i, act := range included {
		attributed[i] = *act
	}
	return Deduplicate(attributed), rels, nil
}

// resolveRelationships resolves the fork lineage of every distinct repository
// the activities touch, fanning out through a bounded worker pool. Each
// lookup is isolated: a failure leaves the zero relationship (not a fork) in
// place and never cancels its siblings.
func (a *Aggregator) resolveRelationships(ctx context.Context, activities []domain.Activity) map[string]domain.Relationship {
	var repos []string
	seen := make(map[string]bool)
	add := func(repo string) {
		if repo != "" && !seen[repo] {
			seen[repo] = true
			repos = append(repos, repo)
		}
	}
	for _, act := range activities {
		add(act.Repo)
		if act.Kind == domain.KindPullRequest {
			add(act.BaseRepo)
		}
	}

	resolved := make([]domain.Relationship, len(repos))
	var eg errgroup.Group
	eg.SetLimit(a.workers)
	for i, repo := range repos {
		i, repo := i, repo
		eg.Go(func() error {
			rel, err := a.fetcher.ResolveRepository(ctx, repo)
			if err != nil {
				a.logger.Debugf("treating %s as not a fork: %v", repo, err)
				return nil
			}
			resolved[i] = rel
			return nil
		})
	}
	eg.Wait()

	rels := make(map[string]domain.Relationship, len(repos))
	for i, repo := range repos {
		rels[repo] = resolved[i]
	}
	return rels
}

// classify applies the domain decision table to each activity and rewrites
// the repository of included entries to their attribution target. The second
// return lists the commits whose decision asked for line-change stats.
func (a *Aggregator) classify(activities []domain.Activity, username string, rels map[string]domain.Relationship) (included, wantStats []*domain.Activity) {
	for i := range activities {
		act := &activities[i]
		var decision domain.Decision
		switch act.Kind {
		case domain.KindCommit:
			decision = domain.ClassifyCommit(*act, username, rels[act.Repo])
		case domain.KindPullRequest:
			decision = domain.ClassifyPullRequest(*act, username)
		}
		if !decision.Include {
			continue
		}
		act.Repo = decision.Repo
		included = append(included, act)
		if decision.WantStats && act.SHA != "" {
			wantStats = append(wantStats, act)
		}
	}
	return included, wantStats
}

// fetchStats augments included non-fork commits with line-change counts
// through the same bounded fan-out as the relationship lookups. A failed
// fetch leaves the commit in the report without a stats annotation.
func (a *Aggregator) fetchStats(ctx context.Context, wantStats []*domain.Activity) {
	var eg errgroup.Group
	eg.SetLimit(a.workers)
	for _, act := range wantStats {
		act := act
		eg.Go(func() error {
			commitStats, err := a.fetcher.FetchCommitStats(ctx, act.Repo, act.SHA)
			if err != nil {
				a.logger.Debugf("no stats for %s@%s: %v", act.Repo, act.SHA, err)
				return nil
			}
			act.Stats = commitStats
			return nil
		})
	}
	eg.Wait()
}
