package datasets

import "context"

type ctxKey int

const (
	metadataKey ctxKey = 0
)

var (
	// MetadataKeyRequestID is the key for the id of the request being served
	MetadataKeyRequestID = "request_id"
	// MetadataKeyDataset is the key for the dataset being operated on
	MetadataKeyDataset = "dataset"
	// MetadataKeyRoute is the key for the http route being served
	MetadataKeyRoute = "route"
)

// GetMetadata returns the metadata attached to the context, if any
func GetMetadata(ctx context.Context) (*Document, bool) {
	m, ok := ctx.Value(metadataKey).(*Document)
	return m, ok
}

// GetMetadataValue gets a metadata value from the context if it exists
func GetMetadataValue(ctx context.Context, key string) any {
	m, ok := GetMetadata(ctx)
	if !ok {
		return nil
	}
	return m.Get(key)
}

// SetMetadataValues sets metadata key value pairs in the context. The context's existing metadata is copied, not mutated.
func SetMetadataValues(ctx context.Context, data map[string]any) context.Context {
	m := ExtractMetadata(ctx).Clone()
	_ = m.SetAll(data)
	return context.WithValue(ctx, metadataKey, m)
}

// SetMetadataRequestID sets the metadata request id
func SetMetadataRequestID(ctx context.Context, requestID string) context.Context {
	return SetMetadataValues(ctx, map[string]any{MetadataKeyRequestID: requestID})
}

// SetMetadataDataset sets the metadata dataset
func SetMetadataDataset(ctx context.Context, dataset string) context.Context {
	return SetMetadataValues(ctx, map[string]any{MetadataKeyDataset: dataset})
}

// ExtractMetadata extracts metadata from the context and returns it
func ExtractMetadata(ctx context.Context) *Document {
	m, ok := GetMetadata(ctx)
	if ok {
		return m
	}
	return NewDocument()
}
