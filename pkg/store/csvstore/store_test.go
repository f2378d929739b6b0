package csvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFindings() []domain.Finding {
	return []domain.Finding{
		{
			Account:      "123456789012",
			Region:       "us-east-1",
			ResourceKind: domain.KindEC2Instance,
			ARN:          "arn:aws:ec2:us-east-1:123456789012:instance/i-1",
			MissingTags:  []string{"Environment", "Owner"},
		},
		{
			Account:      "123456789012",
			Region:       domain.GlobalRegion,
			ResourceKind: domain.KindS3Bucket,
			ARN:          "arn:aws:s3:::raw-events",
			MissingTags:  []string{"Project"},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	store := NewStore(dir)
	runTime := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	path, err := store.Write(sampleFindings(), runTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "missing_tags_resources_20260824_103000.csv"), path)

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, sampleFindings(), got)
}

func TestStoreWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	store := NewStore(dir)

	_, err := store.Write(sampleFindings(), time.Now())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStoreLatest(t *testing.T) {
	t.Run("no dataset at all", func(t *testing.T) {
		store := NewStore(t.TempDir())
		_, err := store.Latest()
		assert.ErrorIs(t, err, ErrNoDataset)
	})

	t.Run("picks the newest dataset", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(dir)

		older, err := store.Write(sampleFindings(), time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		newer, err := store.Write(sampleFindings(), time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		// Make modification times unambiguous.
		require.NoError(t, os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))
		require.NoError(t, os.Chtimes(newer, time.Now(), time.Now()))

		latest, err := store.Latest()
		require.NoError(t, err)
		assert.Equal(t, newer, latest)
	})

	t.Run("falls back to the legacy naming convention", func(t *testing.T) {
		dir := t.TempDir()
		legacy := filepath.Join(dir, "untagged_resources_20250101_000000.csv")
		require.NoError(t, os.WriteFile(legacy, []byte("Account,Region,Resource,ARN,Missing_Tags\n"), 0o644))

		latest, err := NewStore(dir).Latest()
		require.NoError(t, err)
		assert.Equal(t, legacy, latest)
	})
}

func TestStoreReadHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path, err := store.Write(nil, time.Now())
	require.NoError(t, err)

	got, err := store.Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
