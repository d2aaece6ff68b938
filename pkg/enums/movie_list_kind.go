package enums

import "fmt"

// MovieListKind separates user-curated lists from the system lists every user owns.
type MovieListKind string

const (
	MovieListCustom         MovieListKind = "custom"
	MovieListWatchlist      MovieListKind = "watchlist"
	MovieListRecommendation MovieListKind = "recommendation"
)

var validMovieListKinds = []MovieListKind{
	MovieListCustom,
	MovieListWatchlist,
	MovieListRecommendation,
}

// String implements fmt.Stringer.
func (k MovieListKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known MovieListKind.
func (k MovieListKind) IsValid() bool {
	for _, candidate := range validMovieListKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMovieListKind converts raw input into a MovieListKind.
func ParseMovieListKind(value string) (MovieListKind, error) {
	for _, candidate := range validMovieListKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movie list kind %q", value)
}
