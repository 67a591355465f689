package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.True(t, order == binary.LittleEndian || order == binary.BigEndian)
	assert.Equal(t, order, CheckEndianness())
}

func TestGetNativeEngine(t *testing.T) {
	engine := GetNativeEngine()
	if IsNativeLittleEndian() {
		assert.Equal(t, EndianEngine(binary.LittleEndian), engine)
	} else {
		assert.Equal(t, EndianEngine(binary.BigEndian), engine)
	}
}

func TestSwap(t *testing.T) {
	assert.Equal(t, GetBigEndianEngine(), Swap(GetLittleEndianEngine()))
	assert.Equal(t, GetLittleEndianEngine(), Swap(GetBigEndianEngine()))
}

func TestEngines_Append(t *testing.T) {
	le := GetLittleEndianEngine().AppendUint32(nil, 0x01020304)
	be := GetBigEndianEngine().AppendUint32(nil, 0x01020304)

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be)
	assert.Equal(t, uint32(0x01020304), GetBigEndianEngine().Uint32(be))
}
