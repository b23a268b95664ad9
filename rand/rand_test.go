// rand_test.go - Random number tests.
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

package rand

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tryRandomRead(n int) error {
	b := make([]byte, n)
	rd, err := io.ReadFull(Reader, b)
	if err != nil {
		return err
	}
	if rd != len(b) {
		return fmt.Errorf("truncated read: %v", rd)
	}

	// Statistical test...
	var zipBuf bytes.Buffer
	zipper := zlib.NewWriter(&zipBuf)
	zipper.Write(b)
	zipper.Close()

	errorThresh := int(float32(len(b)) * 0.95)
	if zipBuf.Len()-16 < errorThresh {
		return fmt.Errorf("random data noticably compressed????: %v", zipBuf.Len())
	}
	return nil
}

func TestReader(t *testing.T) {
	// Short read.
	if err := tryRandomRead(256); err != nil {
		t.Errorf("short: %v", err)
	}

	// Large read.
	if err := tryRandomRead(1024); err != nil {
		t.Errorf("large: %v", err)
	}

	// Zero-length read.
	n, err := Reader.Read(nil)
	require.NoError(t, err, "Read(nil)")
	require.Zero(t, n, "Read(nil) length")
}

func TestNewMath(t *testing.T) {
	m := NewMath()
	seen := make(map[uint64]bool)
	for i := 0; i < 64; i++ {
		v := m.Uint64()
		assert.False(t, seen[v], "Uint64() repeated output")
		seen[v] = true
	}
}

func TestDeterministicRandReader(t *testing.T) {
	assert := assert.New(t)

	key := [32]byte{0x00}
	r1, err := NewDeterministicRandReader(key[:])
	require.NoError(t, err, "NewDeterministicRandReader()")
	r2, err := NewDeterministicRandReader(key[:])
	require.NoError(t, err, "NewDeterministicRandReader()")

	for i := 0; i < 42; i++ {
		var tmp1, tmp2 [6]byte
		_, err = r1.Read(tmp1[:])
		assert.NoError(err)
		_, err = r2.Read(tmp2[:])
		assert.NoError(err)
		assert.True(tmp1 == tmp2, "keyed streams diverged")
	}
	for i := 0; i < 42; i++ {
		assert.True(r1.Int63() >= 0, "Int63() sign bit set")
	}
	for i := 0; i < 8; i++ {
		p := r1.Perm(i)
		assert.Equal(i, len(p), "Perm() length")
	}
}
