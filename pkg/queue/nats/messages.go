package nats

import (
	"encoding/json"

	"github.com/quantbed/lobwin/pkg/model"
)

// Subject constants.
const (
	SubjectWindowWrite = "lobwin.windows.write"
	SubjectVectorWrite = "lobwin.vectors.write"
)

// WindowBatchMsg carries a batch of window records and their summary
// features to the DuckDB writer.
type WindowBatchMsg struct {
	Windows  []*model.Window     `json:"windows"`
	Features []*model.FeatureRow `json:"features"`
}

// VectorMsg carries one window embedding and its filter fields to the
// Milvus writer.
type VectorMsg struct {
	WindowID        string    `json:"window_id"`
	Embedding       []float32 `json:"embedding"`
	Split           string    `json:"split"`
	EndIndex        int64     `json:"end_index"`
	Horizon         int32     `json:"horizon"`
	Direction       int32     `json:"direction"`
	TrendBucket     int32     `json:"trend_bucket"`
	ImbalanceBucket int32     `json:"imbalance_bucket"`
	DataVersion     int32     `json:"data_version"`
}

// VectorBatchMsg carries a batch of embeddings.
type VectorBatchMsg struct {
	Vectors []VectorMsg `json:"vectors"`
}

// Encode serializes a message to JSON bytes.
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeWindowBatch deserializes a WindowBatchMsg from JSON bytes.
func DecodeWindowBatch(data []byte) (*WindowBatchMsg, error) {
	var msg WindowBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeVectorBatch deserializes a VectorBatchMsg from JSON bytes.
func DecodeVectorBatch(data []byte) (*VectorBatchMsg, error) {
	var msg VectorBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
