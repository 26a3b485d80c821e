package yoomoney

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HistoryRequest fixes the filters of one history traversal. StartRecord is
// the cursor the first page is fetched from, typically zero.
type HistoryRequest struct {
	Types       []OperationTypeFilter
	Label       string
	From        *time.Time
	Till        *time.Time
	Details     bool
	StartRecord uint64
}

func (r HistoryRequest) params(startRecord uint64) url.Values {
	types := make([]string, 0, len(r.Types))
	for _, t := range r.Types {
		types = append(types, string(t))
	}

	params := url.Values{
		"types":        {strings.Join(types, " ")},
		"details":      {strconv.FormatBool(r.Details)},
		"start-record": {strconv.FormatUint(startRecord, 10)},
	}
	if r.Label != "" {
		params.Set("label", r.Label)
	}
	if r.From != nil {
		params.Set("from", r.From.Format(time.RFC3339))
	}
	if r.Till != nil {
		params.Set("till", r.Till.Format(time.RFC3339))
	}
	return params
}

// OperationResult is one item of a history stream. Either Operation is set or
// Error is, in which case the stream ends.
type OperationResult struct {
	Operation Operation
	Error     error
}

// FetchOperations retrieves a single history page starting at the given
// cursor. The returned cursor is nil when the server reported no further
// records.
func (c *Client) FetchOperations(ctx context.Context, req HistoryRequest, startRecord uint64) ([]Operation, *uint64, error) {
	page, err := call[operationHistoryPage](ctx, c.transport, operationHistoryEndpoint, req.params(startRecord))
	if err != nil {
		return nil, nil, err
	}
	if page.NextRecord == nil {
		return page.Operations, nil, nil
	}
	next := uint64(*page.NextRecord)
	return page.Operations, &next, nil
}

// OperationHistory streams history records lazily across pages. Records
// arrive in server order; an empty page ends the stream even when a next
// cursor is present, and any error is delivered as the terminal item.
// Cancelling ctx stops future page fetches. The channel is closed when the
// stream ends; a fresh stream must be created to read again.
func (c *Client) OperationHistory(ctx context.Context, req HistoryRequest) <-chan *OperationResult {
	results := make(chan *OperationResult)

	go func() {
		defer close(results)

		cursor := req.StartRecord
		for {
			if ctx.Err() != nil {
				return
			}

			operations, next, err := c.FetchOperations(ctx, req, cursor)
			if err != nil {
				select {
				case results <- &OperationResult{Error: err}:
				case <-ctx.Done():
				}
				return
			}

			// An empty page is the primary termination signal, cursor or not.
			if len(operations) == 0 {
				return
			}

			for _, op := range operations {
				select {
				case results <- &OperationResult{Operation: op}:
				case <-ctx.Done():
					return
				}
			}

			if next == nil {
				return
			}
			logrus.WithField("next_record", *next).Debug("Advancing history cursor")
			cursor = *next
		}
	}()

	return results
}

// OperationDetails returns the full record of a single operation.
func (c *Client) OperationDetails(ctx context.Context, operationID string) (*OperationDetails, error) {
	details, err := call[OperationDetails](ctx, c.transport, operationDetailsEndpoint, url.Values{
		"operation_id": {operationID},
	})
	if err != nil {
		return nil, err
	}
	return &details, nil
}
