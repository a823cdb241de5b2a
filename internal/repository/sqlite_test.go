package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, cleanup, err := OpenEphemeral(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return s
}

func designationRow(id int64, name string) entity.Row {
	var r entity.Row
	r.Set("design_id", id)
	r.Set("designation_name", name)
	return r
}

func TestMigrate_Idempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	assert.Equal(t, "sqlite3", s.Dialect())
}

func TestInsertRow_ReturnsGeneratedID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var first, second entity.Row
	first.Set("designation_name", "Assistant")
	second.Set("designation_name", "Manager (MGR)")

	id1, err := s.InsertRow(ctx, constants.TableDesignations, first)
	require.NoError(t, err)
	id2, err := s.InsertRow(ctx, constants.TableDesignations, second)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	_, err = s.InsertRow(ctx, constants.TableDesignations, entity.Row{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestInsertRow_ConstraintViolationIsRowRejection(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.InsertRow(ctx, constants.TableDesignations, designationRow(1, "Assistant"))
	require.NoError(t, err)
	_, err = s.InsertRow(ctx, constants.TableDesignations, designationRow(1, "Duplicate"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRowRejected)
	assert.False(t, common.IsInfrastructure(err))
}

func TestInsertRow_MissingTableIsUnavailable(t *testing.T) {
	s := openTestStore(t)
	_, err := s.InsertRow(context.Background(), "no_such_table", designationRow(1, "Assistant"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.NotErrorIs(t, err, common.ErrRowRejected)
}

func TestFetchTable_NamedColumns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.InsertRow(ctx, constants.TableDesignations, designationRow(4, "Executive"))
	require.NoError(t, err)

	rows, err := s.FetchTable(ctx, constants.TableDesignations, "design_id", "designation_name")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 4, rows[0]["design_id"])
	assert.Equal(t, "Executive", rows[0]["designation_name"])
	assert.Len(t, rows[0], 2)
}

func TestFetchTable_FallsBackToAllColumns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.InsertRow(ctx, constants.TableDesignations, designationRow(4, "Executive"))
	require.NoError(t, err)

	rows, err := s.FetchTable(ctx, constants.TableDesignations, "design_id", "renamed_column")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Executive", rows[0]["designation_name"])
}

func TestFetchTable_MissingTable(t *testing.T) {
	s := openTestStore(t)
	_, err := s.FetchTable(context.Background(), "no_such_table", "id")
	require.Error(t, err)
	assert.False(t, common.IsInfrastructure(err))
}

func TestUploadJobRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := NewUploadJobRepository(s, nil)

	created, err := repo.Create(ctx, "job-1", "staff.xlsx", "", 25)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusPending, created.Status)

	require.NoError(t, repo.Start(ctx, "job-1"))
	require.NoError(t, repo.IncrementProgress(ctx, "job-1", 10))
	require.NoError(t, repo.IncrementProgress(ctx, "job-1", 10))
	require.NoError(t, repo.IncrementProgress(ctx, "job-1", 5))
	require.NoError(t, repo.MarkCompleted(ctx, "job-1"))

	job, err := repo.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "staff.xlsx", job.FileName)
	assert.Empty(t, job.FileHash)
	assert.Equal(t, int64(25), job.TotalRecords)
	assert.Equal(t, int64(25), job.ProcessedRecords)
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.False(t, job.IsDeleted)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestUploadJobRepository_SoftDeletedJobRejectsUpdates(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := NewUploadJobRepository(s, nil)

	_, err := repo.Create(ctx, "job-2", "staff.xlsx", "", 3)
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, "job-2"))

	err = repo.IncrementProgress(ctx, "job-2", 1)
	assert.ErrorIs(t, err, common.ErrJobNotFound)
	assert.True(t, common.IsInfrastructure(err))
	assert.ErrorIs(t, repo.MarkFailed(ctx, "job-2"), common.ErrJobNotFound)

	job, err := repo.Get(ctx, "job-2")
	require.NoError(t, err)
	assert.True(t, job.IsDeleted)
	assert.Equal(t, int64(0), job.ProcessedRecords)
}

func TestUploadJobRepository_UnknownJob(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadJobRepository(openTestStore(t), nil)

	assert.ErrorIs(t, repo.Start(ctx, "missing"), common.ErrJobNotFound)
	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUploadJobRepository_FindByHash(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadJobRepository(openTestStore(t), nil)
	const hash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

	_, err := repo.FindByHash(ctx, hash)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.Create(ctx, "job-a", "staff.xlsx", hash, 4)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "job-b", "other.xlsx", "", 2)
	require.NoError(t, err)

	job, err := repo.FindByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "job-a", job.ProcessID)
	assert.Equal(t, hash, job.FileHash)

	require.NoError(t, repo.SoftDelete(ctx, "job-a"))
	_, err = repo.FindByHash(ctx, hash)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.FindByHash(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
