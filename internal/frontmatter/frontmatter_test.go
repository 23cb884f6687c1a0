// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	meta, body, err := Split("---\ntitle: Release Notes\nlang: fr\n---\n# Notes\n")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "Release Notes", meta.Title)
	assert.Equal(t, "fr", meta.Lang)
	assert.Equal(t, "# Notes\n", body)
}

func TestSplitDotsTerminator(t *testing.T) {
	meta, body, err := Split("---\r\ntitle: x\r\n...\r\nbody")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "x", meta.Title)
	assert.Empty(t, meta.Lang)
	assert.Equal(t, "body", body)
}

func TestSplitAtEOF(t *testing.T) {
	meta, body, err := Split("---\ntitle: only\n---")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "only", meta.Title)
	assert.Empty(t, body)
}

func TestSplitNoHeader(t *testing.T) {
	tests := []string{
		"",
		"# Title\n",
		"text\n---\n",
		"---\nnever closed\n",
		"----\ntitle: x\n----\n",
	}
	for _, source := range tests {
		meta, body, err := Split(source)
		assert.NoError(t, err, "source %q", source)
		assert.Nil(t, meta, "source %q", source)
		assert.Equal(t, source, body, "source %q", source)
	}
}

func TestSplitInvalidYAML(t *testing.T) {
	const source = "---\ntitle: [unclosed\n---\nbody"
	meta, body, err := Split(source)
	assert.Error(t, err)
	assert.Nil(t, meta)
	assert.Equal(t, source, body)
}
