package ports

import "errors"

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrNoAddresses     = errors.New("no addresses found in text")
	ErrPlanNotFound    = errors.New("route plan not found")

	ErrExtractorUnauthenticated  = errors.New("extractor: unauthenticated")
	ErrExtractorModelUnavailable = errors.New("extractor: model unavailable")
	ErrExtractorRateLimited      = errors.New("extractor: rate limited")
)
