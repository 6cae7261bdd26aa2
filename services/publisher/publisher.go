package publisher

// Stream suffixes under the configured prefix.
const (
	StreamPricing = "pricing"
	StreamTrend   = "trend"
)

// Publisher represents a service for publishing engine results
type Publisher interface {
	// Publish publishes a message to the named stream
	Publish(stream string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
