package xml

import (
	"fmt"

	"github.com/beevik/etree"
)

// BuildPropfind returns a DAV:propfind body asking for the named DAV:
// properties.
func BuildPropfind(props ...string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(prefixDAV + ":" + TagPropfind)
	AddNamespaces(doc)

	prop := root.CreateElement(prefixDAV + ":" + TagProp)
	for _, name := range props {
		prop.CreateElement(prefixDAV + ":" + name)
	}

	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize propfind request: %w", err)
	}
	return body, nil
}
