package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/fanout/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factory func() string

func TestNew(t *testing.T) {
	reg := New[factory]()

	require.NotNil(t, reg)
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.Names())
}

func TestRegister(t *testing.T) {
	reg := New[factory]()

	t.Run("register valid item", func(t *testing.T) {
		err := reg.Register("bar", func() string { return "bar" })
		require.NoError(t, err)
		assert.Equal(t, 1, reg.Count())
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("  ", func() string { return "" })
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("register duplicate ignores case", func(t *testing.T) {
		err := reg.Register("BAR", func() string { return "other" })
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	})
}

func TestGetAndResolve(t *testing.T) {
	reg := New[factory]()
	MustRegister(reg, "bar", func() string { return "bar" })
	MustRegister(reg, "stats", func() string { return "stats" })

	t.Run("get existing item", func(t *testing.T) {
		got, err := reg.Get(" Stats ")
		require.NoError(t, err)
		assert.Equal(t, "stats", got())
	})

	t.Run("get unknown item lists known names", func(t *testing.T) {
		_, err := reg.Get("graph")
		require.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
		assert.Equal(t, []string{"bar", "stats"}, errors.GetErrorDetails(err)["known"])
	})

	t.Run("resolve keeps order", func(t *testing.T) {
		got, err := reg.Resolve([]string{"stats", "bar"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "stats", got[0]())
		assert.Equal(t, "bar", got[1]())
	})

	t.Run("resolve fails on first unknown", func(t *testing.T) {
		got, err := reg.Resolve([]string{"bar", "nope"})
		assert.Nil(t, got)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	})
}

func TestRemoveAndHas(t *testing.T) {
	reg := New[factory]()
	MustRegister(reg, "log", func() string { return "log" })

	assert.True(t, reg.Has("LOG"))
	require.NoError(t, reg.Remove("log"))
	assert.False(t, reg.Has("log"))

	err := reg.Remove("log")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := New[factory]()
	MustRegister(reg, "bar", func() string { return "" })

	assert.Panics(t, func() {
		MustRegister(reg, "bar", func() string { return "" })
	})
}

func TestConcurrency(t *testing.T) {
	reg := New[int]()
	const goroutines = 10
	const itemsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < itemsPerGoroutine; i++ {
				name := fmt.Sprintf("g%d_item%d", goroutineID, i)
				assert.NoError(t, reg.Register(name, goroutineID*1000+i))
				_, err := reg.Get(name)
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, goroutines*itemsPerGoroutine, reg.Count())
}
