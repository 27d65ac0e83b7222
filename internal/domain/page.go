package domain

// Origin reports which source served a page.
type Origin int

const (
	OriginCache    Origin = iota // page-0 short-circuit hit
	OriginNetwork                // fresh remote page, cache resynchronized
	OriginFallback               // remote failed, cached page served instead
)

func (o Origin) String() string {
	switch o {
	case OriginCache:
		return "cache"
	case OriginNetwork:
		return "network"
	case OriginFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Listing is one page as returned by the remote API.
type Listing[T any] struct {
	Items    []T
	HasMore  bool
	NextPage int
}

// Page is the result of a paginated access operation.
type Page[T any] struct {
	Items    []T
	HasMore  bool
	NextPage int
	Origin   Origin
}
