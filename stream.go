package wad

import (
	"encoding/binary"
	"fmt"
)

// stream reads little-endian fields in order from an untrusted buffer. Every
// read first charges its size against remaining; the first read that would
// overdraw it sets err, and every later read returns zero.
type stream struct {
	data      []byte
	pos       int
	remaining int
	err       error
}

func newStream(data []byte) *stream {
	return &stream{data: data, remaining: len(data)}
}

func (s *stream) take(n int) []byte {
	if s.err != nil {
		return nil
	}
	if s.remaining-n < 0 {
		s.err = fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrTruncated, n, s.pos, s.remaining)
		return nil
	}
	s.remaining -= n
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b
}

// need checks that count records of size bytes remain without consuming
// them, so counts read from the stream can be trusted for allocation.
func (s *stream) need(count uint32, size int) bool {
	if s.err != nil {
		return false
	}
	if int64(count)*int64(size) > int64(s.remaining) {
		s.err = fmt.Errorf("%w: %d records of %d bytes at offset %d, %d left", ErrTruncated, count, size, s.pos, s.remaining)
		return false
	}
	return true
}

func (s *stream) skip(n int) {
	s.take(n)
}

func (s *stream) u8() uint8 {
	if b := s.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (s *stream) u16() uint16 {
	if b := s.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (s *stream) i16() int16 {
	return int16(s.u16())
}

func (s *stream) u32() uint32 {
	if b := s.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (s *stream) i32() int32 {
	return int32(s.u32())
}
