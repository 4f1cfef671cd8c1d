package shopfeed

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever serves canned feeds keyed by URL.
type stubRetriever struct {
	feeds map[string]*Feed
	errs  map[string]error
}

func (r *stubRetriever) Fetch(_ context.Context, url string) (*Feed, error) {
	if err, ok := r.errs[url]; ok {
		return nil, err
	}
	feed, ok := r.feeds[url]
	if !ok {
		return nil, ErrFeedUnavailable
	}
	return feed, nil
}

// stubRecorder captures the datasets handed to it.
type stubRecorder struct {
	runID    string
	products int
	variants int
	err      error
}

func (r *stubRecorder) RecordRun(_ context.Context, runID string, _ time.Time, products, variants *Dataset) error {
	if r.err != nil {
		return r.err
	}
	r.runID = runID
	r.products = products.Len()
	r.variants = variants.Len()
	return nil
}

func catalogFeed(t *testing.T, url string, entries ...string) *Feed {
	t.Helper()
	feed := &Feed{URL: url}
	for _, entry := range entries {
		var raw RawRecord
		require.NoError(t, json.Unmarshal([]byte(entry), &raw))
		feed.Products = append(feed.Products, raw)
	}
	return feed
}

func TestPipeline_Collect(t *testing.T) {
	t.Parallel()

	t.Run("single pass over all feeds", func(t *testing.T) {
		t.Parallel()

		retriever := &stubRetriever{feeds: map[string]*Feed{
			"https://a.example/products.json": catalogFeed(t, "https://a.example/products.json", catalogEntryJSON),
			"https://b.example/products.json": catalogFeed(t, "https://b.example/products.json", catalogEntryJSON),
		}}
		pipe := NewPipeline(retriever)

		products, variants, report, err := pipe.Collect(context.Background(),
			[]string{"https://a.example/products.json", "https://b.example/products.json"})
		require.NoError(t, err)

		assert.Equal(t, 2, report.FeedsFetched)
		assert.Zero(t, report.FeedsFailed)
		assert.Equal(t, 2, products.Len())
		assert.Equal(t, 2, variants.Len())
		assert.NotEmpty(t, report.RunID)
	})

	t.Run("failed feed skipped and counted", func(t *testing.T) {
		t.Parallel()

		retriever := &stubRetriever{
			feeds: map[string]*Feed{
				"https://ok.example/products.json": catalogFeed(t, "https://ok.example/products.json", catalogEntryJSON),
			},
			errs: map[string]error{
				"https://down.example/products.json": ErrFeedUnavailable,
			},
		}
		pipe := NewPipeline(retriever)

		products, _, report, err := pipe.Collect(context.Background(),
			[]string{"https://down.example/products.json", "https://ok.example/products.json"})
		require.NoError(t, err)

		assert.Equal(t, 1, report.FeedsFetched)
		assert.Equal(t, 1, report.FeedsFailed)
		require.Len(t, report.FeedErrors, 1)
		assert.Equal(t, "https://down.example/products.json", report.FeedErrors[0].URL)
		assert.Equal(t, 1, products.Len())
	})

	t.Run("malformed record skipped and counted", func(t *testing.T) {
		t.Parallel()

		feed := catalogFeed(t, "https://a.example/products.json", catalogEntryJSON)
		feed.Products = append(feed.Products, RawRecord{"id": 2.0}) // missing everything else
		retriever := &stubRetriever{feeds: map[string]*Feed{feed.URL: feed}}
		pipe := NewPipeline(retriever)

		products, _, report, err := pipe.Collect(context.Background(), []string{feed.URL})
		require.NoError(t, err)

		assert.Equal(t, 1, report.SkippedRecords)
		assert.Equal(t, 1, products.Len())
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pipe := NewPipeline(&stubRetriever{})
		_, _, _, err := pipe.Collect(ctx, []string{"https://a.example/products.json"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	feedURL := "https://a.example/products.json"

	newStub := func(t *testing.T) *stubRetriever {
		return &stubRetriever{feeds: map[string]*Feed{
			feedURL: catalogFeed(t, feedURL, catalogEntryJSON),
		}}
	}

	t.Run("full cycle appends and syncs", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		productsPath := filepath.Join(dir, "products.csv")
		variantsPath := filepath.Join(dir, "variants.csv")
		productsTable := newMemoryTable("Products")
		variantsTable := newMemoryTable("Variants")
		recorder := &stubRecorder{}

		pipe := NewPipeline(newStub(t))
		report, err := pipe.Run(context.Background(), RunConfig{
			FeedURLs:      []string{feedURL},
			ProductsPath:  productsPath,
			VariantsPath:  variantsPath,
			ProductsTable: productsTable,
			VariantsTable: variantsTable,
			Recorder:      recorder,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Products)
		assert.Equal(t, 1, report.Variants)
		assert.True(t, report.RemoteSynced)

		rows := readCSVFile(t, productsPath)
		require.Len(t, rows, 2)
		assert.Equal(t, "Espresso", rows[1][1])

		assert.Equal(t, "id", productsTable.cells["1,1"])
		assert.Equal(t, "Espresso", productsTable.cells["2,2"])
		assert.Equal(t, "ESP-250", variantsTable.cells["6,2"])

		assert.Equal(t, report.RunID, recorder.runID)
		assert.Equal(t, 1, recorder.products)
	})

	t.Run("local append survives remote failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		productsPath := filepath.Join(dir, "products.csv")
		variantsPath := filepath.Join(dir, "variants.csv")
		brokenTable := newMemoryTable("Products")
		brokenTable.err = errors.New("auth revoked")

		pipe := NewPipeline(newStub(t))
		report, err := pipe.Run(context.Background(), RunConfig{
			FeedURLs:      []string{feedURL},
			ProductsPath:  productsPath,
			VariantsPath:  variantsPath,
			ProductsTable: brokenTable,
		})
		require.ErrorIs(t, err, ErrRemoteSync)
		require.NotNil(t, report)

		// The durable append already happened and is not rolled back.
		rows := readCSVFile(t, productsPath)
		assert.Len(t, rows, 2)
	})

	t.Run("unwritable destination aborts before remote sync", func(t *testing.T) {
		t.Parallel()

		table := newMemoryTable("Products")
		pipe := NewPipeline(newStub(t))
		_, err := pipe.Run(context.Background(), RunConfig{
			FeedURLs:      []string{feedURL},
			ProductsPath:  filepath.Join(t.TempDir(), "missing", "products.csv"),
			ProductsTable: table,
		})
		require.ErrorIs(t, err, ErrDestinationUnwritable)
		assert.Empty(t, table.ops)
	})

	t.Run("empty datasets skip remote sync", func(t *testing.T) {
		t.Parallel()

		retriever := &stubRetriever{errs: map[string]error{feedURL: ErrFeedUnavailable}}
		table := newMemoryTable("Products")

		pipe := NewPipeline(retriever)
		report, err := pipe.Run(context.Background(), RunConfig{
			FeedURLs:      []string{feedURL},
			ProductsTable: table,
		})
		require.NoError(t, err)
		assert.False(t, report.RemoteSynced)
		assert.Empty(t, table.ops)
	})

	t.Run("recorder failure does not fail the run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pipe := NewPipeline(newStub(t))
		report, err := pipe.Run(context.Background(), RunConfig{
			FeedURLs:     []string{feedURL},
			ProductsPath: filepath.Join(dir, "products.csv"),
			VariantsPath: filepath.Join(dir, "variants.csv"),
			Recorder:     &stubRecorder{err: errors.New("disk full")},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Products)
	})

	t.Run("archives written per run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		archiveDir := t.TempDir()
		fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		pipe := NewPipeline(newStub(t), WithClock(func() time.Time { return fixed }))
		_, err := pipe.Run(context.Background(), RunConfig{
			FeedURLs:     []string{feedURL},
			ProductsPath: filepath.Join(dir, "products.csv"),
			VariantsPath: filepath.Join(dir, "variants.csv"),
			ArchiveDir:   archiveDir,
		})
		require.NoError(t, err)

		rows := readCSVFile(t, filepath.Join(archiveDir, "products-2024-01-02.csv"))
		require.Len(t, rows, 2)
		assert.Equal(t, "Espresso", rows[1][1])
	})
}
