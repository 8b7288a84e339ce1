package domain

// Chunk is a bounded text span of the uploaded document. Chunks may
// overlap their neighbors and map one-to-one onto embedding vectors.
type Chunk struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
	Source    string `json:"source"`
}

// SearchResult is a retrieved chunk with its similarity score. Results
// are ephemeral and ordered by descending similarity.
type SearchResult struct {
	Text       string  `json:"text"`
	SessionID  string  `json:"session_id"`
	ChunkIndex int     `json:"chunk_index"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
}

// UploadResult is returned after a document has been indexed.
type UploadResult struct {
	SessionID  string `json:"session_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}
