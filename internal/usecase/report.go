package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/0xbrayo/whatdidyougetdone/internal/domain"
)

const noActivityLine = "No activity found in this time period."

// BuildReport assembles the final report from the deduplicated entry list.
// The three stages (group, order, format) are deliberately separate: the
// first two live here and produce a domain.Report, FormatReport turns it
// into markdown.
//
// Summary counts are taken across the whole deduplicated set before any
// suppression, so they can exceed the number of lines actually rendered.
func BuildReport(username string, days int, entries []domain.Entry, rels map[string]domain.Relationship) domain.Report {
	report := domain.Report{Username: username, Days: days}
	for _, e := range entries {
		switch e.Kind {
		case domain.KindCommit:
			report.CommitCount++
		case domain.KindPullRequest:
			report.PRCount++
		}
	}
	report.Sections = orderSections(groupEntries(entries, rels))
	return report
}

// groupEntries splits the entry list into per-repository sections, keeping
// the repositories in first-appearance order so that later timestamp sorting
// breaks ties stably. Suppression happens here, after dedup: noise commits
// are dropped, and in a fork's section only PRs whose head is this exact
// fork survive. Sections left with nothing to show are dropped.
func groupEntries(entries []domain.Entry, rels map[string]domain.Relationship) []domain.Section {
	index := make(map[string]int)
	var sections []domain.Section

	for _, e := range entries {
		i, ok := index[e.Repo]
		if !ok {
			rel := rels[e.Repo]
			sec := domain.Section{Repo: e.Repo}
			if rel.IsFork {
				sec.Parent = rel.Parent
			}
			i = len(sections)
			index[e.Repo] = i
			sections = append(sections, sec)
		}
		sec := &sections[i]
		switch e.Kind {
		case domain.KindCommit:
			if domain.IsNoise(e.Message) {
				continue
			}
			sec.Commits = append(sec.Commits, e)
		case domain.KindPullRequest:
			if rels[e.Repo].IsFork && e.HeadRepo != "" && e.HeadRepo != e.Repo {
				continue
			}
			sec.PullRequests = append(sec.PullRequests, e)
		}
	}

	kept := sections[:0]
	for _, sec := range sections {
		if len(sec.PullRequests) > 0 || len(sec.Commits) > 0 {
			kept = append(kept, sec)
		}
	}
	return kept
}

// orderSections sorts sections by their most recent entry, newest first, and
// each section's entries by recency within it. All sorts are stable so equal
// timestamps keep their input order.
func orderSections(sections []domain.Section) []domain.Section {
	for i := range sections {
		byRecency(sections[i].PullRequests)
		byRecency(sections[i].Commits)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].LatestActivity().After(sections[j].LatestActivity())
	})
	return sections
}

func byRecency(entries []domain.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// FormatReport renders a report as markdown. Within each section pull
// requests come first, then commits; a fork section's header names the
// parent repository.
func FormatReport(report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# What did %s get done?\n\n", report.Username)
	fmt.Fprintf(&b, "Activity report for the last %d days:\n\n", report.Days)

	if report.Empty() {
		b.WriteString(noActivityLine + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "**Summary:** %d commits, %d pull requests%s\n\n",
		report.CommitCount, report.PRCount, medianChangeNote(report.Sections))

	for _, sec := range report.Sections {
		if sec.Parent != "" {
			fmt.Fprintf(&b, "## %s (fork of %s)\n\n", sec.Repo, sec.Parent)
		} else {
			fmt.Fprintf(&b, "## %s\n\n", sec.Repo)
		}
		for _, pr := range sec.PullRequests {
			fmt.Fprintf(&b, "- 🔀 %s (%s)\n", pr.Title, prStatus(pr))
		}
		for _, c := range sec.Commits {
			fmt.Fprintf(&b, "- 💻 %s (%s)%s\n", firstLine(c.Message), shortSHA(c.SHA), statsNote(c.Stats))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TeamMember is one user's slice of a team report: summary counts plus a
// flat, recency-ordered entry list.
type TeamMember struct {
	Username    string
	CommitCount int
	PRCount     int
	Entries     []domain.Entry
}

// BuildTeamMember reduces one user's deduplicated entries to the team-report
// form: counts plus a flat chronological list, no fork grouping and no
// stats, with the same noise suppression as the single-user report.
func BuildTeamMember(username string, entries []domain.Entry) TeamMember {
	member := TeamMember{Username: username}
	for _, e := range entries {
		switch e.Kind {
		case domain.KindCommit:
			member.CommitCount++
			if domain.IsNoise(e.Message) {
				continue
			}
		case domain.KindPullRequest:
			member.PRCount++
		}
		member.Entries = append(member.Entries, e)
	}
	byRecency(member.Entries)
	return member
}

// FormatTeamReport renders the multi-user digest.
func FormatTeamReport(days int, members []TeamMember) string {
	var b strings.Builder
	b.WriteString("# Team Activity Report\n\n")
	fmt.Fprintf(&b, "Activity for the last %d days\n\n", days)

	for _, m := range members {
		fmt.Fprintf(&b, "## %s\n\n", m.Username)
		fmt.Fprintf(&b, "- 💻 %d commits\n", m.CommitCount)
		fmt.Fprintf(&b, "- 🔀 %d pull requests\n\n", m.PRCount)
		for _, e := range m.Entries {
			switch e.Kind {
			case domain.KindCommit:
				fmt.Fprintf(&b, "- [%s] %s\n", e.Repo, firstLine(e.Message))
			case domain.KindPullRequest:
				fmt.Fprintf(&b, "- [%s] %s (%s)\n", e.Repo, e.Title, prStatus(e))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// prStatus picks the status marker for a merged PR entry. A PR that was seen
// closed at any point renders as closed regardless of other observed states;
// otherwise the most recently observed state wins.
func prStatus(e domain.Entry) string {
	if e.HasState("closed") {
		return "closed"
	}
	if len(e.States) > 0 {
		return e.States[0]
	}
	return "open"
}

// medianChangeNote summarizes the typical change size across rendered
// commits that carry stats; empty when none do.
func medianChangeNote(sections []domain.Section) string {
	var sizes []float64
	for _, sec := range sections {
		for _, c := range sec.Commits {
			if c.Stats != nil {
				sizes = append(sizes, float64(c.Stats.Additions+c.Stats.Deletions))
			}
		}
	}
	if len(sizes) == 0 {
		return ""
	}
	median, err := stats.Median(sizes)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (median change: %.0f lines)", median)
}

func statsNote(s *domain.CommitStats) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf(" [+%d/-%d]", s.Additions, s.Deletions)
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
