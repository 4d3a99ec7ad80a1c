package xml

import "github.com/beevik/etree"

// Tag names interpreted in multistatus documents and written in requests
const (
	TagPropfind    = "propfind"
	TagProp        = "prop"
	TagMultistatus = "multistatus"
	TagResponse    = "response"
	TagHref        = "href"
	TagPropstat    = "propstat"
	TagStatus      = "status"
	TagGetetag     = "getetag"
)

// Property is a single property reported inside a propstat block. Only the
// element name and its text are kept.
type Property struct {
	Name        string
	Namespace   string
	TextContent string
}

// FromElement populates a Property from an etree.Element
func (p *Property) FromElement(elem *etree.Element) {
	p.Name = elem.Tag
	p.Namespace = elem.NamespaceURI()
	if p.Namespace == "" {
		p.Namespace = elem.Space
	}
	p.TextContent = elem.Text()
}
