package upstream_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/upstream"
)

func TestFREDLatestSkipsGapObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fred/series/observations", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "RRPONTSYD", q.Get("series_id"))
		require.Equal(t, "test-key", q.Get("api_key"))
		require.Equal(t, "json", q.Get("file_type"))
		require.Equal(t, "desc", q.Get("sort_order"))
		_, _ = w.Write([]byte(`{"observations":[
			{"date":"2025-08-29","value":"."},
			{"date":"2025-08-28","value":"112.437"},
			{"date":"2025-08-27","value":"118.002"}
		]}`))
	}))
	defer srv.Close()

	f := upstream.NewFRED(srv.URL, "test-key", testClient(), zerolog.Nop())
	v, err := f.Latest(context.Background(), "RRPONTSYD")
	require.NoError(t, err)
	require.Equal(t, 112.437, v)
}

func TestFREDLatestPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations":[
			{"date":"2025-08-27","value":"6754321"},
			{"date":"2025-08-20","value":"6761234"}
		]}`))
	}))
	defer srv.Close()

	f := upstream.NewFRED(srv.URL, "test-key", testClient(), zerolog.Nop())
	latest, prior, err := f.LatestPair(context.Background(), "WALCL")
	require.NoError(t, err)
	require.Equal(t, 6754321.0, latest)
	require.Equal(t, 6761234.0, prior)
}

func TestFREDLatestPairNeedsTwoNumericObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"observations":[{"date":"2025-08-27","value":"6754321"},{"date":"2025-08-20","value":"."}]}`))
	}))
	defer srv.Close()

	f := upstream.NewFRED(srv.URL, "test-key", testClient(), zerolog.Nop())
	_, _, err := f.LatestPair(context.Background(), "WALCL")
	require.Error(t, err)
}

func TestFREDLatestRequestShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)

	doer.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "application/json", req.Header.Get("Accept"))
			require.Equal(t, "5", req.URL.Query().Get("limit"))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{"observations":[{"date":"2025-08-29","value":"4.33"}]}`)),
			}, nil
		})

	f := upstream.NewFRED("https://api.stlouisfed.org", "test-key", doer, zerolog.Nop())
	v, err := f.Latest(context.Background(), "DFF")
	require.NoError(t, err)
	require.Equal(t, 4.33, v)
}

func TestFREDLatestNoObservations(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := NewMockDoer(ctrl)
	doer.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"observations":[]}`)),
		}, nil)

	f := upstream.NewFRED("https://api.stlouisfed.org", "test-key", doer, zerolog.Nop())
	_, err := f.Latest(context.Background(), "DFF")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no numeric observations")
}
