package xml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ErrMalformed is returned when a document is not well-formed XML.
var ErrMalformed = errors.New("malformed multistatus document")

// Multistatus is the typed form of a DAV:multistatus document.
type Multistatus struct {
	Responses []Response
}

// Response is one DAV:response element. Href is shared by all of its
// propstat blocks.
type Response struct {
	Href      string
	Status    string
	PropStats []PropStat
}

// PropStat is one DAV:propstat block.
type PropStat struct {
	Status string
	Props  []Property
}

// OK reports whether the response carries at least one 2xx status, either
// on the response itself or in any of its propstat blocks.
func (r *Response) OK() bool {
	if IsSuccessStatus(r.Status) {
		return true
	}
	for _, ps := range r.PropStats {
		if IsSuccessStatus(ps.Status) {
			return true
		}
	}
	return false
}

// ParseMultistatus decodes data into a Multistatus. A document whose root is
// not DAV:multistatus, or an empty document, yields an empty result and no
// error. XML that cannot be read, or that carries more than one top-level
// element, is ErrMalformed. Only elements in the DAV: namespace are
// interpreted; the prefix bound to it does not matter.
func ParseMultistatus(data []byte) (*Multistatus, error) {
	ms := &Multistatus{}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return ms, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if n := len(doc.ChildElements()); n > 1 {
		return ms, fmt.Errorf("%w: %d top-level elements", ErrMalformed, n)
	}

	root := doc.Root()
	if root == nil || !isDAV(root, TagMultistatus) {
		return ms, nil
	}

	for _, respElem := range davChildren(root, TagResponse) {
		resp := Response{}

		if hrefElem := davChild(respElem, TagHref); hrefElem != nil {
			resp.Href = strings.TrimSpace(hrefElem.Text())
		}
		if statusElem := davChild(respElem, TagStatus); statusElem != nil {
			resp.Status = strings.TrimSpace(statusElem.Text())
		}

		for _, propstatElem := range davChildren(respElem, TagPropstat) {
			propstat := PropStat{}
			if statusElem := davChild(propstatElem, TagStatus); statusElem != nil {
				propstat.Status = strings.TrimSpace(statusElem.Text())
			}
			if propElem := davChild(propstatElem, TagProp); propElem != nil {
				for _, child := range propElem.ChildElements() {
					property := Property{}
					property.FromElement(child)
					propstat.Props = append(propstat.Props, property)
				}
			}
			resp.PropStats = append(resp.PropStats, propstat)
		}

		ms.Responses = append(ms.Responses, resp)
	}

	return ms, nil
}

func isDAV(el *etree.Element, tag string) bool {
	return el.Tag == tag && el.NamespaceURI() == DAV
}

func davChildren(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if isDAV(child, tag) {
			out = append(out, child)
		}
	}
	return out
}

func davChild(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if isDAV(child, tag) {
			return child
		}
	}
	return nil
}

// ParseResourceRefs returns, in document order, the href of every response
// that reports success. Each response contributes at most once no matter how
// many of its propstat blocks succeed. Responses without an href are dropped.
// On malformed input the result is empty and the error says why.
func ParseResourceRefs(data []byte) ([]string, error) {
	refs := []string{}

	ms, err := ParseMultistatus(data)
	if err != nil {
		return refs, err
	}

	for _, resp := range ms.Responses {
		if resp.Href == "" || !resp.OK() {
			continue
		}
		refs = append(refs, resp.Href)
	}
	return refs, nil
}

// IsSuccessStatus reports whether a DAV:status line such as
// "HTTP/1.1 200 OK" carries a 2xx code.
func IsSuccessStatus(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return false
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return false
	}
	return code >= 200 && code <= 299
}
