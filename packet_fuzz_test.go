package mqttwire

import (
	"testing"

	"github.com/axmq/mqttwire/buffer"
)

// FuzzDecode feeds arbitrary bytes through the top-level v3 and v5
// entry points; neither may panic. The target checks only for panics:
// it does not inspect the decoded packets or what remains of the
// source view.
func FuzzDecode(f *testing.F) {
	seeds := [][]byte{
		{0xC0, 0x00},
		{0xE0, 0x00},
		{0x30, 0x07, 0x00, 0x01, 't', 'h', 'i'},
		{0x10, 0x0E, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04, 0x02, 0x00, 0x3C, 0x00, 0x01, 'a'},
		{0x10, 0x0D, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x05, 0x02, 0x00, 0x3C, 0x00, 0x00, 0x01, 'a'},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, version := range []ProtocolVersion{V311, V5} {
			owned := buffer.NewOwned(append([]byte(nil), data...), nil)
			owned.Fill(len(data))
			shared := owned.Freeze()
			_, _, _ = Decode(version, shared)
			shared.Close()
		}

		owned := buffer.NewOwned(append([]byte(nil), data...), nil)
		owned.Fill(len(data))
		shared := owned.Freeze()
		_, _, _, _ = DecodeConnect(shared)
		shared.Close()
	})
}
