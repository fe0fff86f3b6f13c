package ports

import "context"

// Contract for turning free-form delivery text into address strings.
type TextExtractor interface {
	// Return the addresses mentioned in text, in the order they appear.
	ExtractAddresses(ctx context.Context, text string) ([]string, error)
}
