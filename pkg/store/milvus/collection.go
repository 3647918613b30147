package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// DefaultCollectionName is the default collection for window embeddings.
const DefaultCollectionName = "lob_windows"

// CollectionConfig holds configuration for creating a collection.
type CollectionConfig struct {
	Name      string
	Dimension int // shape-vector dimension
	Shards    int
}

// DefaultCollectionConfig returns default collection configuration.
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Name:      DefaultCollectionName,
		Dimension: 96,
		Shards:    2,
	}
}

// CreateCollection creates the lob_windows collection if absent.
func (c *Client) CreateCollection(ctx context.Context, cfg CollectionConfig) error {
	exists, err := c.HasCollection(ctx, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: cfg.Name,
		Description:    "Order-book window embeddings for similarity search",
		Fields: []*entity.Field{
			{
				Name:       "window_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", cfg.Dimension),
				},
			},
			{
				Name:     "split",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "end_index",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "horizon",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "direction",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "trend_bucket",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "imbalance_bucket",
				DataType: entity.FieldTypeInt32,
			},
			{
				Name:     "data_version",
				DataType: entity.FieldTypeInt32,
			},
		},
	}

	err = c.conn.CreateCollection(ctx, schema, int32(cfg.Shards))
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// WindowData holds one window embedding for insertion.
type WindowData struct {
	WindowID        string
	Embedding       []float32
	Split           string
	EndIndex        int64
	Horizon         int32
	Direction       int32
	TrendBucket     int32
	ImbalanceBucket int32
	DataVersion     int32
}

// Insert inserts a single window embedding.
func (c *Client) Insert(ctx context.Context, collectionName string, data *WindowData) error {
	return c.InsertBatch(ctx, collectionName, []*WindowData{data})
}

// InsertBatch inserts multiple window embeddings.
func (c *Client) InsertBatch(ctx context.Context, collectionName string, dataList []*WindowData) error {
	if len(dataList) == 0 {
		return nil
	}

	windowIDs := make([]string, len(dataList))
	embeddings := make([][]float32, len(dataList))
	splits := make([]string, len(dataList))
	endIndexes := make([]int64, len(dataList))
	horizons := make([]int32, len(dataList))
	directions := make([]int32, len(dataList))
	trendBuckets := make([]int32, len(dataList))
	imbalanceBuckets := make([]int32, len(dataList))
	dataVersions := make([]int32, len(dataList))

	for i, d := range dataList {
		windowIDs[i] = d.WindowID
		embeddings[i] = d.Embedding
		splits[i] = d.Split
		endIndexes[i] = d.EndIndex
		horizons[i] = d.Horizon
		directions[i] = d.Direction
		trendBuckets[i] = d.TrendBucket
		imbalanceBuckets[i] = d.ImbalanceBucket
		dataVersions[i] = d.DataVersion
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("window_id", windowIDs),
		entity.NewColumnFloatVector("embedding", len(embeddings[0]), embeddings),
		entity.NewColumnVarChar("split", splits),
		entity.NewColumnInt64("end_index", endIndexes),
		entity.NewColumnInt32("horizon", horizons),
		entity.NewColumnInt32("direction", directions),
		entity.NewColumnInt32("trend_bucket", trendBuckets),
		entity.NewColumnInt32("imbalance_bucket", imbalanceBuckets),
		entity.NewColumnInt32("data_version", dataVersions),
	}

	_, err := c.conn.Insert(ctx, collectionName, "", columns...)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	return nil
}

// SearchResult represents a single search result.
type SearchResult struct {
	WindowID        string
	Score           float32
	Split           string
	EndIndex        int64
	Horizon         int32
	Direction       int32
	TrendBucket     int32
	ImbalanceBucket int32
	DataVersion     int32
}

// Search performs a TopK similarity search with an optional boolean
// filter expression.
func (c *Client) Search(ctx context.Context, collectionName string, embedding []float32, filter string, topK int) ([]SearchResult, error) {
	vectors := []entity.Vector{entity.FloatVector(embedding)}

	sp, err := entity.NewIndexIvfFlatSearchParam(16) // nprobe
	if err != nil {
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	outputFields := []string{"window_id", "split", "end_index", "horizon", "direction", "trend_bucket", "imbalance_bucket", "data_version"}

	results, err := c.conn.Search(
		ctx,
		collectionName,
		nil,
		filter,
		outputFields,
		vectors,
		"embedding",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	searchResults := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		result := SearchResult{
			Score: results[0].Scores[i],
		}

		for _, field := range results[0].Fields {
			switch field.Name() {
			case "window_id":
				if col, ok := field.(*entity.ColumnVarChar); ok {
					val, _ := col.ValueByIdx(i)
					result.WindowID = val
				}
			case "split":
				if col, ok := field.(*entity.ColumnVarChar); ok {
					val, _ := col.ValueByIdx(i)
					result.Split = val
				}
			case "end_index":
				if col, ok := field.(*entity.ColumnInt64); ok {
					val, _ := col.ValueByIdx(i)
					result.EndIndex = val
				}
			case "horizon":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.Horizon = val
				}
			case "direction":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.Direction = val
				}
			case "trend_bucket":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.TrendBucket = val
				}
			case "imbalance_bucket":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.ImbalanceBucket = val
				}
			case "data_version":
				if col, ok := field.(*entity.ColumnInt32); ok {
					val, _ := col.ValueByIdx(i)
					result.DataVersion = val
				}
			}
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}

// Flush flushes the collection to ensure data persistence.
func (c *Client) Flush(ctx context.Context, collectionName string) error {
	return c.conn.Flush(ctx, collectionName, false)
}
