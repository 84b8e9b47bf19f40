package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modeltrust/registry/internal/artifact"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func modelArtifact(id, name string) *Artifact {
	return &Artifact{
		ID:      id,
		Type:    TypeModel,
		Name:    name,
		URL:     "https://huggingface.co/" + name,
		License: "apache-2.0",
	}
}

func TestArtifactCRUD(t *testing.T) {
	store := newTestStore(t)

	a := modelArtifact("1000000001", "google/bert-base-uncased")
	a.Lineage = []string{"wikipedia", "bookcorpus"}
	require.NoError(t, store.CreateArtifact(a))

	got, err := store.GetArtifact(TypeModel, "1000000001")
	require.NoError(t, err)
	assert.Equal(t, "google/bert-base-uncased", got.Name)
	assert.Equal(t, []string{"wikipedia", "bookcorpus"}, got.Lineage)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, store.UpdateArtifactURL(TypeModel, "1000000001", "https://example.com/mirror"))
	got, err = store.GetArtifact(TypeModel, "1000000001")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/mirror", got.URL)

	require.NoError(t, store.DeleteArtifact(TypeModel, "1000000001"))
	_, err = store.GetArtifact(TypeModel, "1000000001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetArtifactTypeScoped(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "org/model")))

	_, err := store.GetArtifact(TypeDataset, "1000000001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMissingArtifact(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.UpdateArtifactURL(TypeModel, "missing", "x"), ErrNotFound)
	assert.ErrorIs(t, store.DeleteArtifact(TypeModel, "missing"), ErrNotFound)
}

func TestListArtifactsPagination(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "org/a")))
	require.NoError(t, store.CreateArtifact(modelArtifact("1000000002", "org/b")))
	require.NoError(t, store.CreateArtifact(&Artifact{ID: "1000000003", Type: TypeDataset, Name: "org/data", URL: "u"}))

	all, err := store.ListArtifacts("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	models, err := store.ListArtifacts(TypeModel, 0, 0)
	require.NoError(t, err)
	assert.Len(t, models, 2)

	page, err := store.ListArtifacts("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "1000000002", page[0].ID)
}

func TestFindByName(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "google/bert-base-uncased")))

	found, err := store.FindByName("Google/BERT-base-uncased/")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1000000001", found[0].ID)

	found, err = store.FindByName("nobody/else")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCreateArtifactNormalizesName(t *testing.T) {
	store := newTestStore(t)

	// An ingested model keeps the casing of its source URL; the stored name
	// must still be findable by any casing of the same name.
	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "Google/BERT-Base")))

	got, err := store.GetArtifact(TypeModel, "1000000001")
	require.NoError(t, err)
	assert.Equal(t, "google/bert-base", got.Name)

	for _, query := range []string{"Google/BERT-Base", "google/bert-base"} {
		found, err := store.FindByName(query)
		require.NoError(t, err)
		require.Len(t, found, 1, "query %q", query)
		assert.Equal(t, "1000000001", found[0].ID)
	}
}

func TestFindByRegex(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "google/bert-base-uncased")))
	require.NoError(t, store.CreateArtifact(modelArtifact("1000000002", "openai/whisper-small")))

	found, err := store.FindByRegex("bert.*uncased")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "google/bert-base-uncased", found[0].Name)

	_, err = store.FindByRegex("(")
	assert.Error(t, err)
}

func TestRatingLifecycle(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "org/model")))

	_, err := store.LatestRating(TypeModel, "1000000001")
	assert.ErrorIs(t, err, ErrNotFound)

	first := &artifact.Rating{Name: "org/model", NetScore: 0.6, License: 0.9}
	require.NoError(t, store.SaveRating(TypeModel, "1000000001", first))

	second := &artifact.Rating{Name: "org/model", NetScore: 0.8, License: 0.9}
	require.NoError(t, store.SaveRating(TypeModel, "1000000001", second))

	latest, err := store.LatestRating(TypeModel, "1000000001")
	require.NoError(t, err)
	assert.Equal(t, 0.8, latest.NetScore)

	// Delete cascades ratings.
	require.NoError(t, store.DeleteArtifact(TypeModel, "1000000001"))
	_, err = store.LatestRating(TypeModel, "1000000001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateArtifact(modelArtifact("1000000001", "org/a")))
	require.NoError(t, store.SaveRating(TypeModel, "1000000001", &artifact.Rating{NetScore: 0.7}))

	deleted, err := store.Reset()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	all, err := store.ListArtifacts("", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and trims", "  Google/BERT  ", "google/bert"},
		{"collapses slashes", "org//model", "org/model"},
		{"drops trailing slash", "org/model/", "org/model"},
		{"decodes escapes", "org%2Fmodel", "org/model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}
