package calendar

import "strings"

// Platform is a social network and the content types it accepts
type Platform struct {
	Name         string
	ContentTypes []string
}

// Registry is the fixed set of supported platforms, in canonical order
var Registry = []Platform{
	{Name: "Instagram", ContentTypes: []string{"Image", "Reel", "Carousel"}},
	{Name: "Facebook", ContentTypes: []string{"Image", "Video", "Status"}},
	{Name: "LinkedIn", ContentTypes: []string{"Article", "Image", "Video"}},
	{Name: "Twitter", ContentTypes: []string{"Tweet", "Thread", "Poll"}},
}

func lookupPlatform(name string) (Platform, bool) {
	for _, p := range Registry {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Platform{}, false
}

// NormalizePlatform returns the canonical casing of a registered platform.
// Unknown names are returned unchanged.
func NormalizePlatform(name string) string {
	if p, ok := lookupPlatform(name); ok {
		return p.Name
	}
	return name
}

// NormalizePlatforms normalizes every name, keeping order
func NormalizePlatforms(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, NormalizePlatform(n))
	}
	return out
}

// AllowedContentTypes concatenates the content types of each platform in the
// given order. Types shared by several platforms appear once per platform.
func AllowedContentTypes(platforms []string) []string {
	var types []string
	for _, name := range platforms {
		if p, ok := lookupPlatform(name); ok {
			types = append(types, p.ContentTypes...)
		}
	}
	return types
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
