package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoogle(endpoint string) *Google {
	return NewGoogle(GoogleConfig{Endpoint: endpoint})
}

// googleStub mimics the translate_a/single response shape: the first
// element holds [translated, original] segment pairs.
func googleStub(t *testing.T, translate func(q string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		assert.Equal(t, "gtx", r.URL.Query().Get("client"))
		payload := []interface{}{
			[]interface{}{
				[]interface{}{translate(q), q},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func TestGoogleTranslate_SingleChunk(t *testing.T) {
	srv := googleStub(t, func(q string) string { return "市场上涨" })
	defer srv.Close()

	out, err := newTestGoogle(srv.URL).Translate(context.Background(), "Markets rallied", "en", "zh-CN")
	require.NoError(t, err)
	assert.Equal(t, "市场上涨", out)
}

func TestGoogleTranslate_EmptyInput(t *testing.T) {
	out, err := newTestGoogle("http://unused.invalid").Translate(context.Background(), "   ", "en", "zh-CN")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestGoogleTranslate_ChunksPreserveOrder(t *testing.T) {
	// Echo each chunk back wrapped in markers so the joined output shows
	// chunk order.
	srv := googleStub(t, func(q string) string { return "[" + q[:20] + "]" })
	defer srv.Close()

	// Build input well past one chunk: distinct sentences so chunk
	// boundaries land between them.
	var sb strings.Builder
	for i := 0; sb.Len() < 12000; i++ {
		sb.WriteString("Sentence number ")
		sb.WriteString(strings.Repeat("a", 80))
		sb.WriteString(". ")
	}
	input := sb.String()
	require.Greater(t, utf8.RuneCountInString(input), maxChunkRunes)

	out, err := newTestGoogle(srv.URL).Translate(context.Background(), input, "en", "zh-CN")
	require.NoError(t, err)

	// Every chunk starts with the same sentence prefix, so ordered output
	// is a repetition of the marker prefix.
	assert.True(t, strings.HasPrefix(out, "[Sentence number"))
	assert.Greater(t, strings.Count(out, "["), 1)
}

func TestGoogleTranslate_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestGoogle(srv.URL).Translate(context.Background(), "Markets rallied", "en", "zh-CN")
	assert.Error(t, err)
}

func TestDecodeGoogleResponse_ConcatenatesSegments(t *testing.T) {
	body := []byte(`[[["第一段","first part"],["第二段","second part"]],null,"en"]`)
	out, err := decodeGoogleResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "第一段第二段", out)
}

func TestDecodeGoogleResponse_Invalid(t *testing.T) {
	_, err := decodeGoogleResponse([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeGoogleResponse([]byte(`[]`))
	assert.Error(t, err)
}

func TestSplitChunks(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := splitChunks("Hello world.", maxChunkRunes)
		assert.Equal(t, []string{"Hello world."}, chunks)
	})

	t.Run("chunks rejoin to the original text", func(t *testing.T) {
		text := strings.Repeat("One two three four five. ", 400)
		chunks := splitChunks(text, 500)
		assert.Greater(t, len(chunks), 1)
		assert.Equal(t, text, strings.Join(chunks, ""))
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 500)
		}
	})

	t.Run("oversized sentence is hard split", func(t *testing.T) {
		text := strings.Repeat("x", 1200)
		chunks := splitChunks(text, 500)
		assert.Equal(t, 3, len(chunks))
		assert.Equal(t, text, strings.Join(chunks, ""))
	})
}
