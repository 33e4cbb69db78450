package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// client polls a running matching engine's introspection HTTP surface
// (internal/app/introspection). It carries no book state of its own —
// every render reflects a fresh Query dispatched through the engine.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{baseURL: baseURL, http: &http.Client{Timeout: 2 * time.Second}}
}

type ladderResponse struct {
	BidPrices []int64 `json:"bidPrices"`
	AskPrices []int64 `json:"askPrices"`
}

type depthResponse struct {
	Price    int64    `json:"price"`
	BidDepth int64    `json:"bidDepth"`
	AskDepth int64    `json:"askDepth"`
	BidIDs   []uint64 `json:"bidOrderIds"`
	AskIDs   []uint64 `json:"askOrderIds"`
}

type bestResponse struct {
	BestBid *int64 `json:"bestBid"`
	BestAsk *int64 `json:"bestAsk"`
}

func (c *client) get(path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := c.http.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bookview: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) ladder() (ladderResponse, error) {
	var resp ladderResponse
	err := c.get("/v1/ladder", nil, &resp)
	return resp, err
}

func (c *client) best() (bestResponse, error) {
	var resp bestResponse
	err := c.get("/v1/best", nil, &resp)
	return resp, err
}

func (c *client) depth(price int64) (depthResponse, error) {
	var resp depthResponse
	err := c.get("/v1/depth", url.Values{"price": {fmt.Sprintf("%d", price)}}, &resp)
	return resp, err
}

// level is a single rendered price rung: the price plus the resting
// quantity on each side, gathered by calling depth for every price the
// ladder reports.
type level struct {
	price    int64
	bidDepth int64
	askDepth int64
}

func (c *client) snapshot(maxLevels int) (bids, asks []level, err error) {
	lad, err := c.ladder()
	if err != nil {
		return nil, nil, err
	}

	bids = make([]level, 0, maxLevels)
	for i, p := range lad.BidPrices {
		if i >= maxLevels {
			break
		}
		d, derr := c.depth(p)
		if derr != nil {
			return nil, nil, derr
		}
		bids = append(bids, level{price: p, bidDepth: d.BidDepth})
	}

	asks = make([]level, 0, maxLevels)
	for i, p := range lad.AskPrices {
		if i >= maxLevels {
			break
		}
		d, derr := c.depth(p)
		if derr != nil {
			return nil, nil, derr
		}
		asks = append(asks, level{price: p, askDepth: d.AskDepth})
	}

	return bids, asks, nil
}
