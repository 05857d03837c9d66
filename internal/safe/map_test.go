package safe_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/autom8ter/datasets/internal/safe"
	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Run("set get delete", func(t *testing.T) {
		m := safe.Map[map[string]any]{}
		_, ok := m.Get("1")
		assert.False(t, ok)
		for i := 0; i < 10; i++ {
			m.Set(fmt.Sprint(i), map[string]any{
				"value": i,
			})
		}
		assert.Equal(t, 10, m.Len())
		for _, key := range m.Keys() {
			entry, ok := m.Get(key)
			assert.True(t, ok)
			assert.Equal(t, cast.ToInt(key), entry["value"])
		}
		for i := 0; i < 10; i++ {
			m.Del(fmt.Sprint(i))
		}
		assert.Equal(t, 0, m.Len())
	})
	t.Run("new map copies its input", func(t *testing.T) {
		data := map[string]int{"b": 2, "a": 1}
		m := safe.NewMap(data)
		data["c"] = 3
		assert.Equal(t, []string{"a", "b"}, m.Keys())
	})
	t.Run("concurrent writers", func(t *testing.T) {
		m := safe.NewMap[int](nil)
		wg := sync.WaitGroup{}
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				m.Set(fmt.Sprint(i), i)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 50, m.Len())
	})
}
