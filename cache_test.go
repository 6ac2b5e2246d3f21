// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := NewCache()
	a := Authority{Host: "example.com", Port: 443}

	assert.Nil(t, c.Get(a))
	assert.Nil(t, c.Remove(a))

	first := &fakeScheme{name: "basic", complete: true}
	c.Put(a, first)
	assert.Same(t, first, c.Get(a).(*fakeScheme))

	// No default-port normalisation: a different port is a different
	// authority.
	assert.Nil(t, c.Get(Authority{Host: "example.com", Port: 80}))

	second := &fakeScheme{name: "digest", complete: true}
	c.Put(a, second)
	assert.Same(t, second, c.Get(a).(*fakeScheme))

	removed := c.Remove(a)
	assert.Same(t, second, removed.(*fakeScheme))
	assert.Nil(t, c.Get(a))
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Put(Authority{Host: "a", Port: 80}, &fakeScheme{name: "basic"})
	c.Put(Authority{Host: "b", Port: 80}, &fakeScheme{name: "basic"})

	c.Clear()
	assert.Nil(t, c.Get(Authority{Host: "a", Port: 80}))
	assert.Nil(t, c.Get(Authority{Host: "b", Port: 80}))
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := Authority{Host: fmt.Sprintf("host%d", i%4), Port: 80}
			for j := 0; j < 100; j++ {
				c.Put(a, &fakeScheme{name: "basic", complete: true})
				c.Get(a)
				c.Remove(a)
			}
		}(i)
	}
	wg.Wait()
}
