package jsonld

import "strings"

// Link members of an ActivityStreams Link object.
const (
	KeyHref     = "href"
	KeyMimeType = "mimeType"
)

// MediaTypeHTML is the media type a link has when it does not declare one.
const MediaTypeHTML = "text/html"

// ResolveHref extracts a hyperlink from a url-like attribute.
//
// The attribute can be a string, an array of strings, or an array of Link
// objects. Link objects may carry a mimeType; when it's missing the link is
// text/html. With an empty preferredType the first link is used, otherwise
// the first link whose media type matches. The empty string is returned when
// nothing matches.
func ResolveHref(value interface{}, preferredType string) string {
	val := ValueOf(value)

	var single Value
	switch {
	case val.Kind() == KindSequence && !ValueOf(FirstOfValue(value)).IsString():
		for _, elem := range val.Sequence() {
			link := ValueOf(elem)
			if preferredType == "" || linkMediaType(link) == preferredType {
				single = link
				break
			}
		}
	case val.Kind() == KindSequence:
		single = ValueOf(FirstOfValue(value))
	default:
		single = val
	}

	switch single.Kind() {
	case KindScalar:
		s, _ := single.AsString()
		return s
	case KindNode:
		s, _ := single.Field(KeyHref).AsString()
		return s
	default:
		return ""
	}
}

func linkMediaType(link Value) string {
	if mt, ok := link.Field(KeyMimeType).AsString(); ok && strings.TrimSpace(mt) != "" {
		return mt
	}
	return MediaTypeHTML
}
