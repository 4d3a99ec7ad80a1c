package davclient

import (
	"context"
	"fmt"

	"github.com/cyp0633/libcarddav/internal/httpclient"
	"github.com/cyp0633/libcarddav/internal/xml"
)

// ListResources sends PROPFIND (Depth: 1) to the collection and returns the
// successful member hrefs. A transport failure yields an empty listing and
// the error; a document that cannot be parsed yields an empty listing and
// no error.
func (c *davClient) ListResources(ctx context.Context) ([]string, error) {
	collectionURL := c.endpoint.CollectionURL()

	body, err := xml.BuildPropfind(xml.TagGetetag, xml.TagHref)
	if err != nil {
		return []string{}, err
	}

	c.logger.Debug("listing collection", "url", collectionURL)
	data, err := c.httpClient.Request(ctx, httpclient.MethodPropfind, collectionURL, body)
	if err != nil {
		c.logger.Error("failed to fetch contacts list", "url", collectionURL, "error", err)
		return []string{}, fmt.Errorf("failed to list %s: %w", collectionURL, err)
	}

	refs, err := xml.ParseResourceRefs(data)
	if err != nil {
		c.logger.Error("failed to parse XML response", "url", collectionURL, "error", err)
		return refs, nil
	}

	if c.opts.SkipCollection {
		members := refs[:0]
		for _, ref := range refs {
			if c.endpoint.IsCollection(ref) {
				continue
			}
			members = append(members, ref)
		}
		refs = members
	}

	c.logger.Debug("collection listed", "url", collectionURL, "resources", len(refs))
	return refs, nil
}
