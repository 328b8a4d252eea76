// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Kind discriminates the two event kinds the report cares about.
// Anything else in the feed is dropped before it reaches the domain.
type Kind string

const (
	KindCommit      Kind = "commit"
	KindPullRequest Kind = "pull_request"
)

// CommitStats holds the per-commit line-change counts fetched individually
// for commits in non-fork repositories. Fetching is best-effort, so a commit
// may carry no stats at all.
type CommitStats struct {
	Additions int
	Deletions int
}

// Activity is one raw unit of input from the event feed, immutable once
// fetched. Repo is the owner/name the event was ingested under; attribution
// may later place the entry under a different repository.
type Activity struct {
	Kind      Kind
	Repo      string
	Actor     string
	CreatedAt time.Time

	// Commit payload.
	SHA     string
	Message string
	Stats   *CommitStats

	// Pull request payload.
	Title    string
	State    string
	BaseRepo string
	HeadRepo string
	PRAuthor string
}

// Relationship is a point-in-time fact about a repository's fork lineage.
// It is resolved on demand and never cached across runs; callers must not
// assume two resolutions of the same repository agree.
type Relationship struct {
	IsFork         bool
	Parent         string
	ParentViewable bool
}
