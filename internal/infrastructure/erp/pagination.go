package erp

import (
	"context"
	"encoding/json"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// FetchAll walks the provider's offset pagination and accumulates every
// record. Termination follows the last-page heuristic: an empty page or a
// page shorter than the requested size ends the walk. The provider exposes
// no authoritative total count.
func (c *Client) FetchAll(ctx context.Context, method string, filters map[string]integration.Filter) ([]json.RawMessage, error) {
	pageSize := c.config.PageSize

	var all []json.RawMessage
	for offset := 0; ; offset += pageSize {
		page, err := c.FetchPage(ctx, method, filters, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}
	return all, nil
}

// FetchPage fetches a single page, for callers that process results
// incrementally instead of holding the full result set in memory.
func (c *Client) FetchPage(ctx context.Context, method string, filters map[string]integration.Filter, offset, limit int) ([]json.RawMessage, error) {
	return c.Request(ctx, method, filters, offset, limit)
}
