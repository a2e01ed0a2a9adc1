package portfolio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/database"
	"portfolio/internal/domain/asset"
	"portfolio/internal/domain/content"
	"portfolio/internal/logger"
	"portfolio/internal/pkg/cache"
)

// countingCache records reads that hit so tests can tell cached answers
// from rebuilt ones.
type countingCache struct {
	cache.Cache
	hits int
}

func (c *countingCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	hit, err := c.Cache.GetJSON(ctx, key, dst)
	if hit {
		c.hits++
	}
	return hit, err
}

type brokenCache struct{}

func (brokenCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, errors.New("redis down")
}
func (brokenCache) SetJSON(context.Context, string, any, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCache) Del(context.Context, ...string) error { return errors.New("redis down") }

func setupTestService(t *testing.T, c cache.Cache) (*Service, *content.Catalog) {
	t.Helper()

	db, err := database.Connect(":memory:", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, content.Migrate(db))

	assets := asset.NewManager(asset.NewLocalBackend(t.TempDir(), "/uploads"), logger.Discard())
	catalog := content.NewCatalog(content.Deps{
		DB:             db,
		Assets:         assets,
		Log:            logger.Discard(),
		MaxUploadBytes: 1 << 20,
		OnChange:       Invalidator(c, logger.Discard()),
	})
	return NewService(catalog, assets, c, time.Minute, logger.Discard()), catalog
}

func upload(name, body string) content.Upload {
	return content.Upload{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

func TestGet_EmptySite(t *testing.T) {
	svc, _ := setupTestService(t, cache.NewMemoryCache())

	v, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v.Profile)
	assert.Nil(t, v.About)
	assert.Nil(t, v.Contact)
	assert.Empty(t, v.Projects)
	assert.Empty(t, v.Experiences)
}

func TestGet_ResolvesAssetLinks(t *testing.T) {
	ctx := context.Background()
	svc, catalog := setupTestService(t, cache.NewMemoryCache())

	_, err := catalog.Profile.Save(ctx, &content.Profile{Name: "Ada", Title: "Engineer"}, map[string]content.Upload{
		"cvFile": upload("cv.pdf", "%PDF-1.4"),
	})
	require.NoError(t, err)
	project, err := catalog.Projects.Save(ctx, &content.Project{Title: "Site"}, map[string]content.Upload{
		"projectImage": upload("shot.png", "png-bytes"),
	})
	require.NoError(t, err)
	_, err = catalog.Services.Save(ctx, &content.Service{Title: "Consulting"}, nil)
	require.NoError(t, err)

	v, err := svc.Get(ctx)
	require.NoError(t, err)

	require.NotNil(t, v.Profile)
	assert.Equal(t, "/uploads/cv/resume.pdf", v.Profile.CVLink)
	assert.Empty(t, v.Profile.PictureLink)

	require.Len(t, v.Projects, 1)
	assert.Equal(t, "/uploads/projects/"+project.ImageURL, v.Projects[0].ImageLink)

	require.Len(t, v.Services, 1)
	assert.Empty(t, v.Services[0].ImageLink)
}

func TestGet_OrdersDatedSectionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, catalog := setupTestService(t, cache.NewMemoryCache())

	for _, d := range []string{"2018-01-01", "2022-06-01", "2020-03-01"} {
		start, _ := time.Parse("2006-01-02", d)
		_, err := catalog.Educations.Save(ctx, &content.Education{Institution: "Uni " + d, Degree: "BSc", StartDate: start}, nil)
		require.NoError(t, err)
	}

	v, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, v.Educations, 3)
	assert.Equal(t, "Uni 2022-06-01", v.Educations[0].Institution)
	assert.Equal(t, "Uni 2018-01-01", v.Educations[2].Institution)
}

func TestGet_CachesUntilContentChanges(t *testing.T) {
	ctx := context.Background()
	c := &countingCache{Cache: cache.NewMemoryCache()}
	svc, catalog := setupTestService(t, c)

	_, err := catalog.About.Save(ctx, &content.About{Content: "first"}, nil)
	require.NoError(t, err)

	v, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", v.About.Content)
	assert.Equal(t, 0, c.hits)

	v, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", v.About.Content)
	assert.Equal(t, 1, c.hits)

	_, err = catalog.About.Save(ctx, &content.About{Content: "second"}, nil)
	require.NoError(t, err)

	v, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", v.About.Content)
	assert.Equal(t, 1, c.hits)
}

func TestGet_CacheFailureFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	svc, catalog := setupTestService(t, brokenCache{})

	_, err := catalog.Skills.Save(ctx, &content.Skill{Name: "Go"}, nil)
	require.NoError(t, err)

	v, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, v.Skills, 1)
	assert.Equal(t, "Other", v.Skills[0].Category)
}
