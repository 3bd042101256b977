package usecase

import (
	"testing"
	"time"

	"collabnet/internal/entity"
	"collabnet/internal/model"

	"github.com/stretchr/testify/assert"
)

func (e *testEnv) personalPost(t *testing.T, author entity.ActorRef, title string) {
	t.Helper()

	post := &entity.Post{
		Author: author,
		Tier:   entity.TierPublic,
		Title:  title,
	}
	if err := e.posts.Create(post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	time.Sleep(time.Millisecond)
}

func feedTitles(posts []*entity.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestFeedResolve_FollowsReflectedImmediately(t *testing.T) {
	env := newTestEnv(t)
	feed := env.feedUC()
	rels := env.relationships()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")

	env.personalPost(t, bob, "bob's update")

	posts, err := feed.Resolve(alice, FeedOptions{})
	assert.NoError(t, err)
	assert.Empty(t, feedTitles(posts))

	_, err = rels.Follow(alice, bob)
	assert.NoError(t, err)

	posts, err = feed.Resolve(alice, FeedOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"bob's update"}, feedTitles(posts))

	// No cache sits between an unfollow and the next resolve.
	assert.NoError(t, rels.Unfollow(alice, bob))

	posts, err = feed.Resolve(alice, FeedOptions{})
	assert.NoError(t, err)
	assert.Empty(t, feedTitles(posts))
}

func TestFeedResolve_MembershipChangesReflected(t *testing.T) {
	env := newTestEnv(t)
	feed := env.feedUC()

	alice := env.individual(t, "alice")
	bob := env.individual(t, "bob")
	groupID := env.group(t, "builders", map[entity.ActorRef]string{
		bob: model.GroupRoleMember,
	})

	post := &entity.Post{
		Author:  bob,
		GroupID: groupID,
		Tier:    entity.TierMembersOnly,
		Title:   "internal note",
	}
	assert.NoError(t, env.posts.Create(post))

	posts, err := feed.Resolve(alice, FeedOptions{})
	assert.NoError(t, err)
	assert.Empty(t, posts)

	err = env.db.Create(&model.GroupMemberModel{
		GroupID:    groupID,
		MemberID:   alice.ID,
		MemberKind: string(alice.Kind),
		Role:       model.GroupRoleMember,
	}).Error
	assert.NoError(t, err)

	posts, err = feed.Resolve(alice, FeedOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"internal note"}, feedTitles(posts))
}

func TestFeedResolve_DefaultLimit(t *testing.T) {
	env := newTestEnv(t)
	feed := env.feedUC()

	alice := env.individual(t, "alice")
	for i := 0; i < defaultFeedLimit+5; i++ {
		env.personalPost(t, alice, "post")
	}

	posts, err := feed.Resolve(alice, FeedOptions{})
	assert.NoError(t, err)
	assert.Len(t, posts, defaultFeedLimit)

	posts, err = feed.Resolve(alice, FeedOptions{Limit: 5, Offset: defaultFeedLimit})
	assert.NoError(t, err)
	assert.Len(t, posts, 5)
}
