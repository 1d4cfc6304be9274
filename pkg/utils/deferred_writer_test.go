package utils

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter_Write(t *testing.T) {
	t.Run("buffers writes", func(t *testing.T) {
		d := &DeferredWriter{}

		n, err := d.Write([]byte("hello "))
		require.NoError(t, err)
		assert.Equal(t, 6, n)

		n, err = d.Write([]byte("world"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, 11, d.Len())

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Equal(t, "hello world", out.String())
	})

	t.Run("concurrent writes are safe", func(t *testing.T) {
		d := &DeferredWriter{}
		var wg sync.WaitGroup

		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = d.Write([]byte("x"))
			}()
		}

		wg.Wait()

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Len(t, out.String(), 100)
	})

	t.Run("limit drops overflow", func(t *testing.T) {
		d := &DeferredWriter{Limit: 8}

		n, err := d.Write([]byte("warning: a\n"))
		require.NoError(t, err)
		assert.Equal(t, 11, n)

		_, _ = d.Write([]byte("more"))
		assert.Equal(t, 8, d.Len())

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Equal(t, "warning:(7 bytes of output dropped)\n", out.String())
	})
}

func TestDeferredWriter_Flush(t *testing.T) {
	t.Run("clears buffer after flush", func(t *testing.T) {
		d := &DeferredWriter{Limit: 4}
		_, _ = d.Write([]byte("test data"))

		var out1 bytes.Buffer
		require.NoError(t, d.Flush(&out1))
		assert.Contains(t, out1.String(), "test")

		var out2 bytes.Buffer
		require.NoError(t, d.Flush(&out2))
		assert.Empty(t, out2.String())
	})

	t.Run("empty buffer returns nil", func(t *testing.T) {
		d := &DeferredWriter{}

		var out bytes.Buffer
		require.NoError(t, d.Flush(&out))
		assert.Empty(t, out.String())
	})

	t.Run("write error", func(t *testing.T) {
		d := &DeferredWriter{}
		_, _ = d.Write([]byte("x"))
		assert.Error(t, d.Flush(failingWriter{}))
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}
