package xml

import "github.com/beevik/etree"

// Namespace definitions for WebDAV and CardDAV
const (
	// DAV is the WebDAV namespace
	DAV = "DAV:"
	// CardDAV is the CardDAV namespace (RFC 6352)
	CardDAV = "urn:ietf:params:xml:ns:carddav"
)

// Prefixes used when this package writes documents
const (
	prefixDAV     = "d"
	prefixCardDAV = "card"
)

// AddNamespaces declares the WebDAV and CardDAV prefixes on the document root
func AddNamespaces(doc *etree.Document) {
	root := doc.Root()
	if root == nil {
		return
	}
	root.CreateAttr("xmlns:"+prefixDAV, DAV)
	root.CreateAttr("xmlns:"+prefixCardDAV, CardDAV)
}
