package database

import (
	"bytes"
	"sort"

	"github.com/asdine/storm/v3"
	stormcodec "github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// DefaultCodec is the name of the codec used when none is configured.
const DefaultCodec = "msgpack"

var codecs = map[string]stormcodec.MarshalUnmarshaler{
	DefaultCodec: msgpack.Codec,
	// http://cbor.io/
	"cbor": &ugorjiCodec{name: "cbor", handle: &codec.CborHandle{}},
	// https://github.com/ugorji/binc
	"binc": &ugorjiCodec{name: "binc", handle: &codec.BincHandle{}},
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// UseCodec selects the format used to store data in the database.
// A database must always be opened with the codec it was initialized with.
func UseCodec(name string) error {
	if name == "" {
		name = DefaultCodec
	}

	c, ok := codecs[name]
	if !ok {
		return errors.Errorf("unknown database codec %q (available: %v)", name, Codecs())
	}
	StormCodec = storm.Codec(c)
	return nil
}

// Codecs returns the names of the available codecs.
func Codecs() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// An ugorjiCodec encodes records with one of the ugorji/go formats.
type ugorjiCodec struct {
	name   string
	handle codec.Handle
}

func (c *ugorjiCodec) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	if err := codec.NewEncoder(&b, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *ugorjiCodec) Unmarshal(b []byte, v any) error {
	return codec.NewDecoderBytes(b, c.handle).Decode(v)
}

func (c *ugorjiCodec) Name() string {
	return c.name
}
