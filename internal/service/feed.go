package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/sakif/clipfeed/internal/catalog"
	"github.com/sakif/clipfeed/internal/model"
)

// FeedService is the read side: it projects stored state and the static
// catalog into view models. It never writes anything.
type FeedService struct {
	content  *ContentService
	sessions *SessionService
}

// NewFeedService creates a FeedService.
func NewFeedService(content *ContentService, sessions *SessionService) *FeedService {
	return &FeedService{
		content:  content,
		sessions: sessions,
	}
}

// Render maps the whole feed, in order, to display rows with resolved
// sound names and one search link per hashtag. Pure function of the
// current storage state.
func (f *FeedService) Render(ctx context.Context) ([]model.FeedRow, error) {
	feed, err := f.content.AllFeedContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering feed: %w", err)
	}

	rows := make([]model.FeedRow, 0, len(feed))
	for _, post := range feed {
		links := make([]string, 0, len(post.Hashtags))
		for _, tag := range post.Hashtags {
			links = append(links, "/api/hashtags/"+NormalizeHashtag(tag))
		}
		rows = append(rows, model.FeedRow{
			Post:      post,
			SoundName: catalog.SoundByKey(post.Sound).Name,
			TagLinks:  links,
		})
	}
	return rows, nil
}

// RankedSoundContent returns the content attached to a sound ordered by
// popularity, highest first. The sort is stable, so items with equal
// popularity keep their catalog order.
func (f *FeedService) RankedSoundContent(soundKey string) (catalog.Sound, []catalog.AttachedItem) {
	sound := catalog.SoundByKey(soundKey)

	ranked := make([]catalog.AttachedItem, len(sound.Attached))
	copy(ranked, sound.Attached)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Popularity > ranked[j].Popularity
	})
	return sound, ranked
}

// ProfileView builds the profile page model for the account. A stale
// session gets a masked view: only the username survives and the caller is
// told to demand re-authentication. The session pointer is not cleared —
// logging in again on the same key is all it takes.
func (f *FeedService) ProfileView(account model.Account) model.ProfileView {
	if f.sessions.IsStale(account) {
		return model.ProfileView{
			Username:       account.Username,
			RequiresReauth: true,
		}
	}
	return model.ProfileView{
		Username:  account.Username,
		Name:      account.Name,
		Email:     account.Email,
		Plan:      account.Plan,
		AvatarURL: account.AvatarURL,
	}
}
