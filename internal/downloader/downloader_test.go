package downloader

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/f.bin":
			w.Write([]byte("artifact payload"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewClient(0)

	t.Run("successful fetch returns full payload", func(t *testing.T) {
		result, err := client.Fetch(srv.URL + "/f.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte("artifact payload"), result.Data)
		assert.Equal(t, int64(16), result.Size)
		assert.GreaterOrEqual(t, result.Elapsed.Nanoseconds(), int64(0))
	})

	t.Run("404 is a failure", func(t *testing.T) {
		_, err := client.Fetch(srv.URL + "/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("500 is a failure", func(t *testing.T) {
		_, err := client.Fetch(srv.URL + "/broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("unreachable host is a failure", func(t *testing.T) {
		_, err := client.Fetch("http://127.0.0.1:1/f.bin")
		require.Error(t, err)
	})
}

func TestResult_SizeKB(t *testing.T) {
	result := &Result{Size: 2048}
	assert.Equal(t, 2.0, result.SizeKB())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{name: "plain file", rawURL: "http://h/dir/f.bin", want: "f.bin"},
		{name: "with query", rawURL: "http://h/f.bin?token=x", want: "f.bin"},
		{name: "trailing slash", rawURL: "http://h/dir/", want: "dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.rawURL))
		})
	}
}
