package easify

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// The Easify server speaks the OData v2 Atom dialect: feed/entry documents
// where each entry carries its typed values under
// content/m:properties as d:-namespaced elements.
const (
	nsAtom     = "http://www.w3.org/2005/Atom"
	nsData     = "http://schemas.microsoft.com/ado/2007/08/dataservices"
	nsMetadata = "http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"
)

type xmlProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
	Null    string `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata null,attr"`
}

type xmlProperties struct {
	Properties []xmlProperty `xml:",any"`
}

type xmlContent struct {
	Properties xmlProperties `xml:"http://schemas.microsoft.com/ado/2007/08/dataservices/metadata properties"`
}

type xmlEntry struct {
	Content xmlContent `xml:"http://www.w3.org/2005/Atom content"`
}

type xmlFeed struct {
	Entries []xmlEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

// properties is one entry's property set keyed by local element name.
type properties map[string]string

func (p properties) str(name string) string { return p[name] }

func (p properties) asInt(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(p[name]))
	if err != nil {
		return 0
	}
	return n
}

func (p properties) asFloat(name string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(p[name]), 64)
	if err != nil {
		return 0
	}
	return f
}

func (p properties) asBool(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p[name]), "true")
}

func (e xmlEntry) props() properties {
	p := make(properties, len(e.Content.Properties.Properties))
	for _, prop := range e.Content.Properties.Properties {
		if prop.Null == "true" {
			continue
		}
		p[prop.XMLName.Local] = prop.Value
	}
	return p
}

// parseFeed parses an Atom response whose root element is either a feed of
// entries or a single entry, and returns one property set per entry.
func parseFeed(body []byte) ([]properties, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrMalformedFeed
	}

	root, err := rootName(body)
	if err != nil {
		return nil, ErrMalformedFeed
	}

	switch root {
	case "feed":
		var feed xmlFeed
		if err := xml.Unmarshal(body, &feed); err != nil {
			return nil, ErrMalformedFeed
		}
		out := make([]properties, 0, len(feed.Entries))
		for _, e := range feed.Entries {
			out = append(out, e.props())
		}
		return out, nil
	case "entry":
		var entry xmlEntry
		if err := xml.Unmarshal(body, &entry); err != nil {
			return nil, ErrMalformedFeed
		}
		return []properties{entry.props()}, nil
	default:
		return nil, ErrMalformedFeed
	}
}

// parseScalar parses a bare scalar response such as the allocation count
// endpoint's (a single root element whose text is the value).
func parseScalar(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", ErrMalformedFeed
	}
	var v struct {
		Value string `xml:",chardata"`
	}
	if err := xml.Unmarshal(body, &v); err != nil {
		return "", ErrMalformedFeed
	}
	return strings.TrimSpace(v.Value), nil
}

func rootName(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
