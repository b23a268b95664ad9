// utils_test.go - Secret material hygiene helper tests.
// Copyright (C) 2025  The Echomix Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplicitBzero(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var b [128]byte
	_, err := rand.Read(b[:])
	require.NoError(t, err, "failed to read random buffer")

	ExplicitBzero(b[:])
	for i, v := range b {
		assert.Zero(v, "byte %d not cleared", i)
	}
}

func TestCtIsZero(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var b [64]byte
	assert.True(CtIsZero(b[:]), "CtIsZero(zero buffer)")
	assert.True(CtIsZero(nil), "CtIsZero(nil)")

	b[len(b)-1] = 0x01
	assert.False(CtIsZero(b[:]), "CtIsZero(tainted buffer)")
}
