package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xbrayo/whatdidyougetdone/internal/domain"
)

var base = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func TestBuildReport_SectionsOrderedByRecency(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/old", SHA: "aaa", Message: "old work", CreatedAt: base.Add(-3 * time.Hour)},
		{Kind: domain.KindCommit, Repo: "alice/new", SHA: "bbb", Message: "new work", CreatedAt: base},
		{Kind: domain.KindCommit, Repo: "alice/old", SHA: "ccc", Message: "more old work", CreatedAt: base.Add(-4 * time.Hour)},
	}

	report := BuildReport("alice", 7, entries, nil)

	require.Len(t, report.Sections, 2)
	assert.Equal(t, "alice/new", report.Sections[0].Repo)
	assert.Equal(t, "alice/old", report.Sections[1].Repo)
}

func TestBuildReport_TimestampTiesKeepInputOrder(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/first", SHA: "aaa", Message: "a", CreatedAt: base},
		{Kind: domain.KindCommit, Repo: "alice/second", SHA: "bbb", Message: "b", CreatedAt: base},
	}

	report := BuildReport("alice", 7, entries, nil)

	require.Len(t, report.Sections, 2)
	assert.Equal(t, "alice/first", report.Sections[0].Repo)
	assert.Equal(t, "alice/second", report.Sections[1].Repo)
}

func TestBuildReport_PRsPrecedeCommitsWithinSection(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/project", SHA: "aaa", Message: "commit work", CreatedAt: base},
		{Kind: domain.KindPullRequest, Repo: "alice/project", Title: "A pull request", States: []string{"open"}, CreatedAt: base.Add(-time.Hour)},
	}

	text := FormatReport(BuildReport("alice", 7, entries, nil))

	prLine := strings.Index(text, "A pull request")
	commitLine := strings.Index(text, "commit work")
	require.NotEqual(t, -1, prLine)
	require.NotEqual(t, -1, commitLine)
	assert.Less(t, prLine, commitLine)
}

// One normal commit and one merge commit in the same repo render as exactly
// one commit line, but the summary still counts both.
func TestReport_MergeCommitSuppressedAfterCounting(t *testing.T) {
	entries := Deduplicate([]domain.Activity{
		{Kind: domain.KindCommit, Repo: "alice/project", SHA: "aaa111", Message: "Add feature", CreatedAt: base},
		{Kind: domain.KindCommit, Repo: "alice/project", SHA: "bbb222", Message: "Merge branch 'main'", CreatedAt: base},
	})

	report := BuildReport("alice", 7, entries, nil)
	text := FormatReport(report)

	assert.Equal(t, 2, report.CommitCount)
	assert.Equal(t, 1, strings.Count(text, "- 💻"))
	assert.NotContains(t, text, "Merge branch")
	assert.Contains(t, text, "**Summary:** 2 commits, 0 pull requests")
}

func TestReport_CoAuthoredCommitSuppressed(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/project", SHA: "aaa111",
			Message: "Pair work\n\nCo-authored-by: Bob <bob@example.com>", CreatedAt: base},
	}

	text := FormatReport(BuildReport("alice", 7, entries, nil))

	assert.NotContains(t, text, "Pair work")
	// All lines suppressed leaves nothing to show.
	assert.Contains(t, text, "No activity found in this time period.")
}

func TestReport_ClosedStateWinsInStatusMarker(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindPullRequest, Repo: "alice/project", Title: "Add parser",
			States: []string{"closed", "open"}, CreatedAt: base},
	}

	text := FormatReport(BuildReport("alice", 7, entries, nil))

	assert.Contains(t, text, "- 🔀 Add parser (closed)")
	assert.Equal(t, 1, strings.Count(text, "Add parser"))
}

func TestReport_ForkSectionHeaderNamesParent(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/fork", SHA: "aaa", Message: "fork work", CreatedAt: base},
	}
	rels := map[string]domain.Relationship{
		"alice/fork": {IsFork: true, Parent: "upstream/fork"},
	}

	text := FormatReport(BuildReport("alice", 7, entries, rels))

	assert.Contains(t, text, "## alice/fork (fork of upstream/fork)")
}

func TestReport_ForkSectionDropsForeignHeadPRs(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/fork", SHA: "aaa", Message: "fork work", CreatedAt: base},
		{Kind: domain.KindPullRequest, Repo: "alice/fork", Title: "From elsewhere",
			States: []string{"open"}, HeadRepo: "bob/other-fork", CreatedAt: base},
		{Kind: domain.KindPullRequest, Repo: "alice/fork", Title: "From this fork",
			States: []string{"open"}, HeadRepo: "alice/fork", CreatedAt: base},
	}
	rels := map[string]domain.Relationship{
		"alice/fork": {IsFork: true, Parent: "upstream/fork"},
	}

	text := FormatReport(BuildReport("alice", 7, entries, rels))

	assert.Contains(t, text, "From this fork")
	assert.NotContains(t, text, "From elsewhere")
}

func TestReport_CommitLineShowsShortSHAAndStats(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/project", SHA: "abcdef0123456789", CreatedAt: base,
			Message: "Add parser\n\nlong body that must not render",
			Stats:   &domain.CommitStats{Additions: 10, Deletions: 2}},
	}

	text := FormatReport(BuildReport("alice", 7, entries, nil))

	assert.Contains(t, text, "- 💻 Add parser (abcdef0) [+10/-2]")
	assert.NotContains(t, text, "long body")
	assert.Contains(t, text, "median change: 12 lines")
}

func TestReport_CommitWithoutStatsOmitsAnnotation(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "alice/project", SHA: "abcdef0", Message: "Add parser", CreatedAt: base},
	}

	text := FormatReport(BuildReport("alice", 7, entries, nil))

	assert.Contains(t, text, "- 💻 Add parser (abcdef0)\n")
	assert.NotContains(t, text, "[+")
	assert.NotContains(t, text, "median change")
}

func TestReport_EmptyWindow(t *testing.T) {
	text := FormatReport(BuildReport("alice", 7, nil, nil))

	assert.Contains(t, text, "# What did alice get done?")
	assert.Contains(t, text, "No activity found in this time period.")
	assert.NotContains(t, text, "**Summary:**")
}

func TestReport_SummaryCountsAtLeastRenderedLines(t *testing.T) {
	entries := Deduplicate([]domain.Activity{
		{Kind: domain.KindCommit, Repo: "r/a", SHA: "aaa", Message: "Real work", CreatedAt: base},
		{Kind: domain.KindCommit, Repo: "r/a", SHA: "bbb", Message: "Merge pull request #1", CreatedAt: base},
		{Kind: domain.KindPullRequest, Repo: "r/a", Title: "A change", State: "open", CreatedAt: base},
	})

	report := BuildReport("alice", 7, entries, nil)
	text := FormatReport(report)

	assert.GreaterOrEqual(t, report.CommitCount, strings.Count(text, "- 💻"))
	assert.GreaterOrEqual(t, report.PRCount, strings.Count(text, "- 🔀"))
}

func TestBuildTeamMember(t *testing.T) {
	entries := []domain.Entry{
		{Kind: domain.KindCommit, Repo: "r/a", SHA: "aaa", Message: "Real work", CreatedAt: base.Add(-time.Hour)},
		{Kind: domain.KindCommit, Repo: "r/a", SHA: "bbb", Message: "Merge branch 'x'", CreatedAt: base},
		{Kind: domain.KindPullRequest, Repo: "r/b", Title: "A change", States: []string{"open"}, CreatedAt: base},
	}

	member := BuildTeamMember("alice", entries)

	assert.Equal(t, 2, member.CommitCount)
	assert.Equal(t, 1, member.PRCount)
	// Merge commit suppressed from the list, remainder newest first.
	require.Len(t, member.Entries, 2)
	assert.Equal(t, domain.KindPullRequest, member.Entries[0].Kind)
	assert.Equal(t, "aaa", member.Entries[1].SHA)
}

func TestFormatTeamReport(t *testing.T) {
	members := []TeamMember{
		{Username: "alice", CommitCount: 2, PRCount: 1, Entries: []domain.Entry{
			{Kind: domain.KindPullRequest, Repo: "r/b", Title: "A change", States: []string{"open"}, CreatedAt: base},
			{Kind: domain.KindCommit, Repo: "r/a", SHA: "aaa", Message: "Real work", CreatedAt: base.Add(-time.Hour)},
		}},
		{Username: "bob", CommitCount: 0, PRCount: 0},
	}

	text := FormatTeamReport(7, members)

	assert.Contains(t, text, "# Team Activity Report")
	assert.Contains(t, text, "Activity for the last 7 days")
	assert.Contains(t, text, "## alice")
	assert.Contains(t, text, "- 💻 2 commits")
	assert.Contains(t, text, "- 🔀 1 pull requests")
	assert.Contains(t, text, "- [r/b] A change (open)")
	assert.Contains(t, text, "- [r/a] Real work")
	assert.Contains(t, text, "## bob")
	assert.Contains(t, text, "- 💻 0 commits")
}
