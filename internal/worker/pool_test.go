package worker

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolSize(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		want       int
	}{
		{name: "explicit override wins", configured: 7, want: 7},
		{name: "single worker override", configured: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, poolSize(tt.configured))
		})
	}

	t.Run("derived size reserves headroom and is at least 1", func(t *testing.T) {
		got := poolSize(0)

		assert.GreaterOrEqual(t, got, 1)
		if runtime.NumCPU() > 3 {
			assert.Equal(t, runtime.NumCPU()-2, got)
		} else {
			// On small machines cores-2 would be zero or negative;
			// the pool must still have one worker.
			assert.Equal(t, 1, got)
		}
	})
}
