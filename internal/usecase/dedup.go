package usecase

import (
	"github.com/0xbrayo/whatdidyougetdone/internal/domain"
)

// Deduplicate collapses the attributed activity list into report entries.
// Input order is the feed order, newest first, and the output keeps the
// first occurrence of each key in that order.
//
// Commits collapse by SHA: the first (most recent) occurrence is kept and
// later duplicates are dropped. Pull requests collapse by (repository,
// title): a PR that went through several lifecycle events becomes one entry
// whose state list is the union of everything observed and whose timestamp
// is the latest across the duplicates.
func Deduplicate(acts []domain.Activity) []domain.Entry {
	seenSHA := make(map[string]bool)
	prIndex := make(map[prKey]int)
	var entries []domain.Entry

	for _, act := range acts {
		switch act.Kind {
		case domain.KindCommit:
			if act.SHA != "" && seenSHA[act.SHA] {
				continue
			}
			seenSHA[act.SHA] = true
			entries = append(entries, domain.Entry{
				Kind:      domain.KindCommit,
				Repo:      act.Repo,
				CreatedAt: act.CreatedAt,
				SHA:       act.SHA,
				Message:   act.Message,
				Stats:     act.Stats,
			})
		case domain.KindPullRequest:
			key := prKey{repo: act.Repo, title: act.Title}
			if i, ok := prIndex[key]; ok {
				merged := &entries[i]
				if !merged.HasState(act.State) {
					merged.States = append(merged.States, act.State)
				}
				if act.CreatedAt.After(merged.CreatedAt) {
					merged.CreatedAt = act.CreatedAt
				}
				continue
			}
			prIndex[key] = len(entries)
			entries = append(entries, domain.Entry{
				Kind:      domain.KindPullRequest,
				Repo:      act.Repo,
				CreatedAt: act.CreatedAt,
				Title:     act.Title,
				States:    []string{act.State},
				HeadRepo:  act.HeadRepo,
			})
		}
	}
	return entries
}

type prKey struct {
	repo  string
	title string
}
