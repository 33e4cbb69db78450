// Package introspection exposes the read-only operations of spec §6.1
// over HTTP as JSON. The retrieval pack carries no generated protobuf
// stubs for a bespoke introspection RPC (only placeholder go.mod files
// under proto/), so this repository serves these queries the same way
// it already serves liveness — plain net/http handlers — rather than
// hand-rolling gRPC service descriptors without a .proto to generate
// them from. The gRPC surface this repository does carry is the
// standard grpc_health_v1 service (pkg/grpclib/health), whose stubs
// ship pre-built inside google.golang.org/grpc and need no codegen.
package introspection

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/exchange-clob/matching-engine/internal/app/engine"
	orderbookv1 "github.com/exchange-clob/matching-engine/internal/domain/orderbook/v1"
	"github.com/exchange-clob/matching-engine/pkg/logger"
	"github.com/exchange-clob/matching-engine/pkg/util"
)

// Server serves book introspection queries by dispatching them onto the
// engine's single goroutine (spec §5) and marshaling the result.
type Server struct {
	engine *engine.Engine
	logger *logger.Logger
	mux    *http.ServeMux
}

// NewServer returns an introspection HTTP server backed by eng.
func NewServer(eng *engine.Engine, log *logger.Logger) *Server {
	s := &Server{engine: eng, logger: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("/v1/depth", s.handleDepth)
	s.mux.HandleFunc("/v1/orders/", s.handleGetOrder)
	s.mux.HandleFunc("/v1/best", s.handleBest)
	s.mux.HandleFunc("/v1/ladder", s.handleLadder)
	return s
}

// ServeHTTP implements http.Handler. Every request is tagged with a
// request id, taken from X-Request-Id if the caller sent one, so log
// lines emitted while handling it can be correlated.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := util.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
	w.Header().Set("X-Request-Id", util.GetRequestID(ctx))
	s.mux.ServeHTTP(w, r.WithContext(ctx))
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "encode_response"})
	}
}

func parsePrice(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("price")
	price, err := strconv.ParseInt(raw, 10, 64)
	return price, err == nil
}

type depthResponse struct {
	Price    int64    `json:"price"`
	BidDepth int64    `json:"bidDepth"`
	AskDepth int64    `json:"askDepth"`
	BidIDs   []uint64 `json:"bidOrderIds"`
	AskIDs   []uint64 `json:"askOrderIds"`
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	price, ok := parsePrice(r)
	if !ok {
		http.Error(w, "missing or invalid price", http.StatusBadRequest)
		return
	}

	var resp depthResponse
	s.engine.Query(func(b orderbookv1.Book) {
		bidDepth, askDepth := b.Depth(price)
		resp = depthResponse{
			Price:    price,
			BidDepth: bidDepth,
			AskDepth: askDepth,
			BidIDs:   b.BidsAt(price),
			AskIDs:   b.AsksAt(price),
		}
	})
	s.writeJSON(r.Context(), w, resp)
}

type bestResponse struct {
	BestBid *int64 `json:"bestBid"`
	BestAsk *int64 `json:"bestAsk"`
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	var resp bestResponse
	s.engine.Query(func(b orderbookv1.Book) {
		if p, ok := b.BestBid(); ok {
			resp.BestBid = &p
		}
		if p, ok := b.BestAsk(); ok {
			resp.BestAsk = &p
		}
	})
	s.writeJSON(r.Context(), w, resp)
}

type ladderResponse struct {
	BidPrices []int64 `json:"bidPrices"`
	AskPrices []int64 `json:"askPrices"`
}

func (s *Server) handleLadder(w http.ResponseWriter, r *http.Request) {
	var resp ladderResponse
	s.engine.Query(func(b orderbookv1.Book) {
		resp.BidPrices = b.AllBidPrices()
		resp.AskPrices = b.AllAskPrices()
	})
	s.writeJSON(r.Context(), w, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Path[len("/v1/orders/"):]
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var order orderbookv1.Order
	var found bool
	s.engine.Query(func(b orderbookv1.Book) {
		order, found = b.GetOrder(id)
	})
	if !found {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	s.writeJSON(r.Context(), w, order)
}
