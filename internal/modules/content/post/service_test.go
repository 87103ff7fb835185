package post

import (
	"strings"
	"testing"

	"github.com/inkpress/core/internal/database"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPostFixture(t *testing.T) (*Service, *models.UserModel) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	author := &models.UserModel{Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleAuthor}
	require.NoError(t, db.Create(author).Error)

	return NewService(db), author
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Ünïcödé Tïtle", "ünïcödé-tïtle"},
		{"Already-dashed --- title", "already-dashed-title"},
		{"Punctuation?! Stripped.", "punctuation-stripped"},
		{"under_scores survive", "under_scores-survive"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.title))
		})
	}
}

func TestCreatePost(t *testing.T) {
	svc, author := newPostFixture(t)

	post, err := svc.Create(&CreatePostDTO{
		Title:  "My First Post",
		BodyMD: "# Hello",
		Tags:   []string{"go", "testing"},
	}, author.ID)
	require.NoError(t, err)

	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Equal(t, author.ID, post.AuthorID)
	require.NotNil(t, post.Analytics)
	assert.Equal(t, 0, post.Analytics.Views)
	require.Len(t, post.Tags, 2)
}

func TestCreatePostInvalidStatus(t *testing.T) {
	svc, author := newPostFixture(t)

	_, err := svc.Create(&CreatePostDTO{Title: "t", BodyMD: "b", Status: "bogus"}, author.ID)
	assert.ErrorIs(t, err, errInvalidStatus)
}

func TestCreatePostSlugCollision(t *testing.T) {
	svc, author := newPostFixture(t)

	first, err := svc.Create(&CreatePostDTO{Title: "Same Title", BodyMD: "a"}, author.ID)
	require.NoError(t, err)
	second, err := svc.Create(&CreatePostDTO{Title: "Same Title", BodyMD: "b"}, author.ID)
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "same-title-"))
}

func TestCreatePostReusesExistingTags(t *testing.T) {
	svc, author := newPostFixture(t)

	_, err := svc.Create(&CreatePostDTO{Title: "One", BodyMD: "a", Tags: []string{"go"}}, author.ID)
	require.NoError(t, err)
	_, err = svc.Create(&CreatePostDTO{Title: "Two", BodyMD: "b", Tags: []string{"go", "web"}}, author.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, svc.db.Model(&models.TagModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestGetByIdentifier(t *testing.T) {
	svc, author := newPostFixture(t)
	created, err := svc.Create(&CreatePostDTO{Title: "Find Me", BodyMD: "x"}, author.ID)
	require.NoError(t, err)

	byID, err := svc.GetByIdentifier(created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	bySlug, err := svc.GetByIdentifier("find-me")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, byID.ID, bySlug.ID)

	missing, err := svc.GetByIdentifier("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateSnapshotsVersion(t *testing.T) {
	svc, author := newPostFixture(t)
	created, err := svc.Create(&CreatePostDTO{Title: "Original", BodyMD: "v1"}, author.ID)
	require.NoError(t, err)

	body2 := "v2"
	updated, err := svc.Update(created.ID, &UpdatePostDTO{BodyMD: &body2})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.BodyMD)
	require.Len(t, updated.Versions, 1)
	assert.Equal(t, 1, updated.Versions[0].VersionNumber)
	assert.Equal(t, "v1", updated.Versions[0].BodyMD)

	body3 := "v3"
	updated, err = svc.Update(created.ID, &UpdatePostDTO{BodyMD: &body3})
	require.NoError(t, err)
	require.Len(t, updated.Versions, 2)

	byNumber := map[int]string{}
	for _, v := range updated.Versions {
		byNumber[v.VersionNumber] = v.BodyMD
	}
	assert.Equal(t, "v1", byNumber[1])
	assert.Equal(t, "v2", byNumber[2])
}

func TestUpdateTitleRederivesSlug(t *testing.T) {
	svc, author := newPostFixture(t)
	created, err := svc.Create(&CreatePostDTO{Title: "Old Title", BodyMD: "x"}, author.ID)
	require.NoError(t, err)

	newTitle := "Brand New Title"
	updated, err := svc.Update(created.ID, &UpdatePostDTO{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)

	// An explicit slug wins over derivation.
	anotherTitle := "Another Title"
	explicit := "keep-this-slug"
	updated, err = svc.Update(created.ID, &UpdatePostDTO{Title: &anotherTitle, Slug: &explicit})
	require.NoError(t, err)
	assert.Equal(t, "keep-this-slug", updated.Slug)
}

func TestUpdateMissingPost(t *testing.T) {
	svc, _ := newPostFixture(t)
	body := "x"
	_, err := svc.Update("no-such-id", &UpdatePostDTO{BodyMD: &body})
	assert.ErrorIs(t, err, errPostNotFound)
}

func TestPublishBySlug(t *testing.T) {
	svc, author := newPostFixture(t)
	created, err := svc.Create(&CreatePostDTO{Title: "Draft Post", BodyMD: "x"}, author.ID)
	require.NoError(t, err)
	require.Equal(t, models.PostStatusDraft, created.Status)

	published, err := svc.Publish("draft-post")
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, published.Status)

	_, err = svc.Publish("no-such-slug")
	assert.ErrorIs(t, err, errPostNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, author := newPostFixture(t)

	_, err := svc.Create(&CreatePostDTO{Title: "Draft One", BodyMD: "x"}, author.ID)
	require.NoError(t, err)
	_, err = svc.Create(&CreatePostDTO{Title: "Live One", BodyMD: "x", Status: models.PostStatusPublished}, author.ID)
	require.NoError(t, err)

	q := pagination.Query{Page: 1, Size: 10}

	// Default listing only shows published posts.
	posts, pag, err := svc.List(q, ListQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Live One", posts[0].Title)
	assert.EqualValues(t, 1, pag.Total)

	posts, _, err = svc.List(q, ListQuery{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, _, err = svc.List(q, ListQuery{Status: models.PostStatusDraft})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Draft One", posts[0].Title)
}

func TestListPagination(t *testing.T) {
	svc, author := newPostFixture(t)
	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.Create(&CreatePostDTO{Title: title, BodyMD: "x", Status: models.PostStatusPublished}, author.ID)
		require.NoError(t, err)
	}

	posts, pag, err := svc.List(pagination.Query{Page: 1, Size: 2}, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.EqualValues(t, 3, pag.Total)
	assert.Equal(t, 2, pag.TotalPage)
	assert.True(t, pag.HasNextPage)

	posts, pag, err = svc.List(pagination.Query{Page: 2, Size: 2}, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.False(t, pag.HasNextPage)
}

func TestViewAndLikeCounters(t *testing.T) {
	svc, author := newPostFixture(t)
	created, err := svc.Create(&CreatePostDTO{Title: "Counted", BodyMD: "x"}, author.ID)
	require.NoError(t, err)

	require.NoError(t, svc.IncrementViews(created.ID))
	require.NoError(t, svc.IncrementViews(created.ID))

	likes, err := svc.Like(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)
	likes, err = svc.Like(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	got, err := svc.GetByIdentifier(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Analytics)
	assert.Equal(t, 2, got.Analytics.Views)
	assert.Equal(t, 2, got.Analytics.Likes)

	_, err = svc.Like("no-such-id")
	assert.ErrorIs(t, err, errPostNotFound)
}

func TestDeleteCascades(t *testing.T) {
	svc, author := newPostFixture(t)
	created, err := svc.Create(&CreatePostDTO{Title: "Doomed", BodyMD: "x"}, author.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.ErrorIs(t, svc.Delete(created.ID), errPostNotFound)

	missing, err := svc.GetByIdentifier(created.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
