package domain

import "time"

// Entry is one deduplicated line of the final report. For pull requests,
// States carries the union of every state observed across the raw events
// that collapsed into this entry, in observation order.
type Entry struct {
	Kind      Kind
	Repo      string
	CreatedAt time.Time

	SHA     string
	Message string
	Stats   *CommitStats

	Title    string
	States   []string
	HeadRepo string
}

// HasState reports whether the entry observed the given state.
func (e Entry) HasState(state string) bool {
	for _, s := range e.States {
		if s == state {
			return true
		}
	}
	return false
}

// Section is one repository's slice of the report. Parent is non-empty when
// the repository is a fork, and is rendered into the section header.
type Section struct {
	Repo         string
	Parent       string
	PullRequests []Entry
	Commits      []Entry
}

// LatestActivity returns the most recent timestamp across the section's
// entries; sections are ordered by it, newest first.
func (s Section) LatestActivity() time.Time {
	var latest time.Time
	for _, e := range s.PullRequests {
		if e.CreatedAt.After(latest) {
			latest = e.CreatedAt
		}
	}
	for _, e := range s.Commits {
		if e.CreatedAt.After(latest) {
			latest = e.CreatedAt
		}
	}
	return latest
}

// Report is the final artifact for a single user. CommitCount and PRCount
// are unique-work totals computed before merge/co-author suppression, so
// they can exceed the number of rendered lines.
type Report struct {
	Username    string
	Days        int
	CommitCount int
	PRCount     int
	Sections    []Section
}

// Empty reports whether the window contained no includable activity.
func (r Report) Empty() bool {
	return len(r.Sections) == 0
}
