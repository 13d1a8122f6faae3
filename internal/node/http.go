package node

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/Pricstas/autonomi/internal/config"
	"github.com/Pricstas/autonomi/internal/getrecord"
	"github.com/Pricstas/autonomi/internal/record"
)

func (n *Node) handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/v1/status":
		n.statusHandler(ctx)
	case path == "/metrics":
		n.metricsHTTP(ctx)
	case strings.HasPrefix(path, "/v1/record/"):
		n.recordHandler(ctx, strings.TrimPrefix(path, "/v1/record/"))
	default:
		writeJSONError(ctx, fasthttp.StatusNotFound, "no such endpoint")
	}
}

func (n *Node) statusHandler(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"node_id":          n.cfg.NodeID,
		"peers":            n.table.Len(),
		"close_group_size": n.cfg.CloseGroupSize,
		"inflight":         n.Inflight(),
		"stored_records":   n.store.Len(),
	})
}

func (n *Node) recordHandler(ctx *fasthttp.RequestCtx, keyHex string) {
	key, err := record.KeyFromHex(keyHex)
	if err != nil || len(key) == 0 {
		writeJSONError(ctx, fasthttp.StatusBadRequest, "key must be non-empty hex")
		return
	}

	policy, err := n.cfg.Quorum()
	if arg := string(ctx.QueryArgs().Peek("quorum")); arg != "" {
		policy, err = config.ParseQuorum(arg)
	}
	if err != nil {
		writeJSONError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	rec, err := n.GetRecord(ctx, key, policy)
	if err == nil {
		ctx.SetContentType("application/octet-stream")
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.Write(rec.Value)
		return
	}

	var split *getrecord.SplitRecordError
	var scarce *getrecord.NotEnoughCopiesError
	switch {
	case errors.Is(err, getrecord.ErrRecordNotFound):
		writeJSONError(ctx, fasthttp.StatusNotFound, "record not found")
	case errors.Is(err, getrecord.ErrQueryTimeout):
		writeJSONError(ctx, fasthttp.StatusRequestTimeout, "query timed out")
	case errors.As(err, &split):
		writeJSON(ctx, fasthttp.StatusConflict, splitBody(split))
	case errors.As(err, &scarce):
		writeJSON(ctx, fasthttp.StatusBadGateway, map[string]any{
			"error":    "not enough copies",
			"received": scarce.Received,
			"required": scarce.Required,
		})
	default:
		writeJSONError(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}

// splitBody summarizes every observed version with its responders.
func splitBody(split *getrecord.SplitRecordError) map[string]any {
	versions := make([]map[string]any, 0, len(split.Versions))
	for hash, v := range split.Versions {
		holders := make([]string, 0, v.Holders.Len())
		for _, id := range v.Holders.IDs() {
			holders = append(holders, string(id))
		}
		versions = append(versions, map[string]any{
			"content_hash": hash.String(),
			"holders":      holders,
		})
	}
	return map[string]any{
		"error":    "split record",
		"versions": versions,
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		ctx.Error("marshal response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.Write(data)
}

func writeJSONError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}
