package registration

import (
	"encoding/binary"
	"math"
)

func floatAt(b []byte, o int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[o : o+4]))
}

func putFloat(b []byte, o int, f float32) {
	binary.LittleEndian.PutUint32(b[o:o+4], math.Float32bits(f))
}
