package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/db/dbtest"
	"github.com/oggyb/crush-reveal/internal/repository"
)

func TestSubmissionCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubmissionRepository(dbtest.Open(t))

	err := repo.Create(ctx, &db.Submission{SubmitterID: 1, CrushID: 2, LikeID: 3, AdoreID: 4})
	require.NoError(t, err)

	got, err := repo.FindBySubmitter(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(2), got.CrushID)
	assert.Equal(t, uint64(3), got.LikeID)
	assert.Equal(t, uint64(4), got.AdoreID)
	assert.False(t, got.CreatedAt.IsZero())

	missing, err := repo.FindBySubmitter(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSubmissionCreate_SecondIsRejectedAndFirstKept(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubmissionRepository(dbtest.Open(t))

	require.NoError(t, repo.Create(ctx, &db.Submission{SubmitterID: 1, CrushID: 2, LikeID: 3, AdoreID: 4}))
	before, err := repo.FindBySubmitter(ctx, 1)
	require.NoError(t, err)

	err = repo.Create(ctx, &db.Submission{SubmitterID: 1, CrushID: 5, LikeID: 6, AdoreID: 7})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	after, err := repo.FindBySubmitter(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, *before, *after)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubmissionCreate_ConcurrentFirstSubmissions(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubmissionRepository(dbtest.Open(t))

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, &db.Submission{
				SubmitterID: 1,
				CrushID:     uint64(10 + i),
				LikeID:      uint64(20 + i),
				AdoreID:     uint64(30 + i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, repository.ErrDuplicate) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
