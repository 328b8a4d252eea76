// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/0xbrayo/whatdidyougetdone/internal/domain"
)

// statsRequestsPerSecond paces the per-commit stat lookups so a large window
// does not burn through the REST quota in one burst.
const statsRequestsPerSecond = 10

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchUserEvents returns the user's commit and pull request activity
	// newer than since, in the feed's reverse-chronological order.
	FetchUserEvents(ctx context.Context, username string, since time.Time) ([]domain.Activity, error)
	// ResolveRepository returns the fork lineage of an owner/name repository.
	ResolveRepository(ctx context.Context, repo string) (domain.Relationship, error)
	// FetchCommitStats returns the line-change counts for one commit.
	FetchCommitStats(ctx context.Context, repo, sha string) (*domain.CommitStats, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	statsLimiter  *rate.Limiter
	logger        *logrus.Logger
}

// repositoryQuery resolves a repository's fork status and parent. The same
// query shape is reused to probe whether the credential can see the parent:
// an unviewable repository simply fails to resolve.
type repositoryQuery struct {
	Repository struct {
		IsFork bool
		Parent struct {
			NameWithOwner string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *logrus.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		statsLimiter:  rate.NewLimiter(rate.Limit(statsRequestsPerSecond), 1),
		logger:        logger,
	}, nil
}

// FetchUserEvents pages through the user's public event feed and converts
// PushEvent and PullRequestEvent payloads into domain activities; every
// other event kind is skipped. Paging stops at the first event older than
// since. That early stop assumes the feed is sorted newest-first, which the
// API promises but this code does not verify; an out-of-order feed would
// silently lose older qualifying events.
func (g *GitHubGateway) FetchUserEvents(ctx context.Context, username string, since time.Time) ([]domain.Activity, error) {
	g.logger.Debugf("fetching events for %s since %s", username, since.Format(time.RFC3339))
	opts := &github.ListOptions{PerPage: 100}
	var activities []domain.Activity
	for {
		events, resp, err := g.restClient.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for user %s: %w", username, err)
		}
		for _, ev := range events {
			if ev.GetCreatedAt().Time.Before(since) {
				return activities, nil
			}
			activities = append(activities, convertEvent(ev)...)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("fetching next page of events...")
	}
	return activities, nil
}

// convertEvent flattens one feed event into zero or more activities. A push
// yields one commit activity per commit in its payload.
func convertEvent(ev *github.Event) []domain.Activity {
	payload, err := ev.ParsePayload()
	if err != nil {
		return nil
	}
	switch p := payload.(type) {
	case *github.PushEvent:
		var acts []domain.Activity
		for _, c := range p.Commits {
			acts = append(acts, domain.Activity{
				Kind:      domain.KindCommit,
				Repo:      ev.GetRepo().GetName(),
				Actor:     ev.GetActor().GetLogin(),
				CreatedAt: ev.GetCreatedAt().Time,
				SHA:       c.GetSHA(),
				Message:   c.GetMessage(),
			})
		}
		return acts
	case *github.PullRequestEvent:
		pr := p.GetPullRequest()
		return []domain.Activity{{
			Kind:      domain.KindPullRequest,
			Repo:      ev.GetRepo().GetName(),
			Actor:     ev.GetActor().GetLogin(),
			CreatedAt: ev.GetCreatedAt().Time,
			Title:     pr.GetTitle(),
			State:     pr.GetState(),
			BaseRepo:  pr.GetBase().GetRepo().GetFullName(),
			HeadRepo:  pr.GetHead().GetRepo().GetFullName(),
			PRAuthor:  pr.GetUser().GetLogin(),
		}}
	}
	return nil
}

// ResolveRepository looks up a repository's fork status and parent via the
// GraphQL API, then probes whether the current credential can view the
// parent. A failed parent probe is reported as not viewable rather than as
// an error; a failed primary lookup is an error and the caller decides the
// fallback.
func (g *GitHubGateway) ResolveRepository(ctx context.Context, repo string) (domain.Relationship, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return domain.Relationship{}, err
	}

	var q repositoryQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.Relationship{}, fmt.Errorf("failed to resolve repository %s: %w", repo, err)
	}

	rel := domain.Relationship{
		IsFork: q.Repository.IsFork,
		Parent: q.Repository.Parent.NameWithOwner,
	}
	if !rel.IsFork || rel.Parent == "" {
		return rel, nil
	}

	parentOwner, parentName, err := splitRepo(rel.Parent)
	if err != nil {
		return rel, nil
	}
	var parentQ repositoryQuery
	parentVars := map[string]interface{}{
		"owner": githubv4.String(parentOwner),
		"name":  githubv4.String(parentName),
	}
	if err := g.graphqlClient.Query(ctx, &parentQ, parentVars); err != nil {
		g.logger.Debugf("parent %s not viewable: %v", rel.Parent, err)
		return rel, nil
	}
	rel.ParentViewable = true
	return rel, nil
}

// FetchCommitStats fetches addition/deletion counts for a single commit via
// the REST API, paced by the gateway's stats limiter.
func (g *GitHubGateway) FetchCommitStats(ctx context.Context, repo, sha string) (*domain.CommitStats, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	if err := g.statsLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	commit, _, err := g.restClient.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats for %s@%s: %w", repo, sha, err)
	}
	return &domain.CommitStats{
		Additions: commit.GetStats().GetAdditions(),
		Deletions: commit.GetStats().GetDeletions(),
	}, nil
}

func splitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository identifier %q", repo)
	}
	return owner, name, nil
}
