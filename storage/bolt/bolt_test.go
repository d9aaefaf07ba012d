/* Copyright 2026 The Bindkit Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bolt

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bindkit/bindkit/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) (*Registry, func()) {
	dir, err := ioutil.TempDir("", "boltregistry")
	require.NoError(t, err)

	r := NewRegistry(filepath.Join(dir, "rulesets.db"))
	require.NoError(t, r.Open())

	return r, func() {
		r.Close()
		os.RemoveAll(dir)
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, done := testRegistry(t)
	defer done()

	source := []byte(`rules: {echo: {cases: [{pattern: {say: "?it"}}]}}`)

	require.NoError(t, r.Put(ctx, "echo", source))

	got, err := r.Get(ctx, "echo")
	require.NoError(t, err)
	assert.Equal(t, source, got)

	ids, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, ids)

	had, err := r.Rem(ctx, "echo")
	require.NoError(t, err)
	assert.True(t, had)

	_, err = r.Get(ctx, "echo")
	assert.Equal(t, storage.NotFound, err)

	had, err = r.Rem(ctx, "echo")
	require.NoError(t, err)
	assert.False(t, had)
}

func TestRegistryAsStorage(t *testing.T) {
	// The bbolt registry satisfies the Registry interface.
	r, done := testRegistry(t)
	defer done()

	var _ storage.Registry = r
}
