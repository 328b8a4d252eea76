package domain

import "strings"

// Decision is the outcome of classifying a single raw event: whether it
// belongs in the report, which repository it is attributed to, and whether
// line-change stats should be fetched for it.
type Decision struct {
	Include   bool
	Repo      string
	WantStats bool
}

// ClassifyCommit decides inclusion and attribution for a commit event.
//
// A commit counts only if the event's actor is the target user. Commits in a
// fork whose parent the credential can view are excluded outright: the same
// work surfaces through the parent repository's own feed, and reporting it
// under the fork would double-count it. If the parent is not viewable the
// fork is the only place the work is visible, so the commit stays, attributed
// to the fork. Commits in non-fork repositories are always in, with stats.
func ClassifyCommit(act Activity, username string, rel Relationship) Decision {
	if !strings.EqualFold(act.Actor, username) {
		return Decision{}
	}
	if rel.IsFork {
		if rel.ParentViewable {
			return Decision{}
		}
		return Decision{Include: true, Repo: act.Repo}
	}
	return Decision{Include: true, Repo: act.Repo, WantStats: true}
}

// ClassifyPullRequest decides inclusion and attribution for a pull request
// event. A PR counts if the target user authored it or owns the repository it
// targets, covering both "PRs I opened" and "PRs opened against my repo".
// Attribution always follows the base repository.
func ClassifyPullRequest(act Activity, username string) Decision {
	if strings.EqualFold(act.PRAuthor, username) || strings.EqualFold(RepoOwner(act.BaseRepo), username) {
		repo := act.BaseRepo
		if repo == "" {
			repo = act.Repo
		}
		return Decision{Include: true, Repo: repo}
	}
	return Decision{}
}

// RepoOwner returns the owner half of an "owner/name" identifier, or "" if
// the identifier has no slash.
func RepoOwner(repo string) string {
	owner, _, ok := strings.Cut(repo, "/")
	if !ok {
		return ""
	}
	return owner
}

// IsNoise reports whether a commit message marks the commit as derived work
// rather than original work: merge commits and commits carrying co-author
// metadata. Noise commits are suppressed from rendered output but still count
// toward the summary totals.
func IsNoise(message string) bool {
	return strings.HasPrefix(message, "Merge") || strings.Contains(message, "Co-authored-by")
}
