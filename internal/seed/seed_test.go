package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/tilab/tilab/internal/app/models"
	appRepos "github.com/tilab/tilab/internal/app/repositories"
	"github.com/tilab/tilab/internal/store"
)

func TestCreateDefaultData_EmptyStore(t *testing.T) {
	repos := appRepos.NewRepositories(store.NewMemory())

	res, err := CreateDefaultData(context.Background(), repos, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{Components: 5, Courses: 3, Kits: 1}, res)

	err = repos.Store.View(context.Background(), func(tx store.Tx) error {
		courses, err := repos.CourseRepository.List(tx)
		require.NoError(t, err)
		require.Len(t, courses, 3)
		assert.Len(t, courses[0].Sections, 2)
		assert.Len(t, courses[1].Sections, 1)
		assert.Empty(t, courses[2].Sections)

		kits, err := repos.KitRepository.List(tx)
		require.NoError(t, err)
		require.Len(t, kits, 1)
		assert.Equal(t, appModels.KitAvailable, kits[0].Status)
		assert.Len(t, kits[0].Items, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateDefaultData_KeepsExistingCollections(t *testing.T) {
	repos := appRepos.NewRepositories(store.NewMemory())
	err := repos.Store.Update(context.Background(), func(tx store.Tx) error {
		return repos.ComponentRepository.SaveAll(tx, []appModels.Component{})
	})
	require.NoError(t, err)

	res, err := CreateDefaultData(context.Background(), repos, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, res.Components)
	assert.Equal(t, 3, res.Courses)
	assert.Zero(t, res.Kits, "kit components are missing")

	again, err := CreateDefaultData(context.Background(), repos, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{}, again)
}
