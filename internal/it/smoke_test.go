package it

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pricstas/autonomi/internal/peer"
	"github.com/Pricstas/autonomi/internal/record"
)

func holderGroup(n int) []peer.ID {
	ids := make([]peer.ID, n)
	for i := range ids {
		ids[i] = peer.ID("holder-" + string(rune('1'+i)))
	}
	return ids
}

func TestSmoke_FetchChunkOverHTTP(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	chunk := record.NewChunk([]byte("smoke test payload"))
	h.Network.SeedGroup(holderGroup(5), chunk)

	status, body, err := h.Get(GetRecordPath(chunk.Key.Hex(), "one"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, chunk.Value, body)
}

func TestSmoke_FetchWithMajority(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	rec := record.Record{
		Key:   record.Key("shared-register"),
		Value: append([]byte{byte(record.KindRegister)}, []byte("agreed value")...),
	}
	h.Network.SeedGroup(holderGroup(5), rec)

	// Default quorum is majority.
	status, body, err := h.Get(GetRecordPath(rec.Key.Hex(), ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, rec.Value, body)
}

func TestSmoke_MissingRecordIs404(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	status, body, err := h.Get(GetRecordPath(record.Key("absent").Hex(), ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "record not found")
}

func TestSmoke_SplitRecordIs409(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	key := record.Key("contested-key")
	a := record.Record{Key: key, Value: append([]byte{byte(record.KindRegister)}, []byte("version-a")...)}
	b := record.Record{Key: key, Value: append([]byte{byte(record.KindRegister)}, []byte("version-b")...)}
	h.Network.Seed("holder-1", a)
	h.Network.Seed("holder-2", a)
	h.Network.Seed("holder-3", b)
	h.Network.Seed("holder-4", b)

	status, body, err := h.Get(GetRecordPath(key.Hex(), "n:4"))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, status)

	var parsed struct {
		Error    string `json:"error"`
		Versions []struct {
			ContentHash string   `json:"content_hash"`
			Holders     []string `json:"holders"`
		} `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "split record", parsed.Error)
	require.Len(t, parsed.Versions, 2)
	for _, v := range parsed.Versions {
		assert.Len(t, v.Holders, 2)
	}
}

func TestSmoke_InvalidKeyIs400(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	status, _, err := h.Get(GetRecordPath("not-hex", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSmoke_StatusEndpoint(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	status, body, err := h.Get("/v1/status")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "n1", parsed["node_id"])
}

func TestSmoke_MetricsEndpoint(t *testing.T) {
	h, err := StartHarness("n1", 5)
	require.NoError(t, err)
	defer h.Stop()

	// Drive one fetch so outcome counters exist.
	chunk := record.NewChunk([]byte("metrics payload"))
	h.Network.SeedGroup(holderGroup(5), chunk)
	_, _, err = h.Get(GetRecordPath(chunk.Key.Hex(), "one"))
	require.NoError(t, err)

	status, body, err := h.Get("/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	text := string(body)
	assert.True(t, strings.Contains(text, "autonomi_fetch_inflight"),
		"metrics exposition should include the inflight gauge")
	assert.True(t, strings.Contains(text, `autonomi_fetch_outcomes_total{outcome="success"}`),
		"metrics exposition should include the success counter")
}
