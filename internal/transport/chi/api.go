package chi

import openapi_types "github.com/oapi-codegen/runtime/types"

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeVectorDimMismatch ErrorCode = "vector_dim_mismatch"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodePayloadTooLarge   ErrorCode = "payload_too_large"
	ErrorCodeRateLimited       ErrorCode = "rate_limited"
	ErrorCodeEmbeddingError    ErrorCode = "embedding_error"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// InsertResponse reports an ingestion outcome.
type InsertResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

// InsertJSONRequest names a file inside the import directory.
type InsertJSONRequest struct {
	Path string `json:"path"`
}

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Text string `json:"text"`
	TopK *int   `json:"topK,omitempty"`
}

// QueryResult is one ranked hit.
type QueryResult struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

// QueryResponse is the POST /query response.
type QueryResponse struct {
	Results []QueryResult `json:"results"`
}

// HealthResponse is the GET /health and GET /ready body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// UploadJSONMultipartBody is the multipart form of POST /upload-json.
type UploadJSONMultipartBody struct {
	File openapi_types.File `json:"file"`
}
