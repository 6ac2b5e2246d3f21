// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Lookup("basic"))

	r.Register("Basic", fakeFactory("basic", ""))

	f := r.Lookup("basic")
	require.NotNil(t, f)
	assert.Equal(t, "basic", f().Name())

	// Lookup is case-insensitive.
	assert.NotNil(t, r.Lookup("BASIC"))

	// Re-registering replaces the factory.
	r.Register("basic", fakeFactory("basic", "replaced"))
	assert.Equal(t, "replaced", r.Lookup("basic")().Realm())

	assert.Equal(t, []string{"basic"}, r.Names())
}

func TestDefaultRegistryRegister(t *testing.T) {
	Register("x-test-scheme", fakeFactory("x-test-scheme", ""))
	assert.NotNil(t, DefaultRegistry().Lookup("X-Test-Scheme"))
}
