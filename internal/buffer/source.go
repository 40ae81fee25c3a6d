package buffer

import "io"

// Source supplies input bytes to a Buffer.
//
// Fill copies up to len(p) bytes into p and returns how many were written.
// It returns io.EOF once the input is exhausted; n may be non-zero together
// with io.EOF. Fill may block; it is the only blocking point of a scan.
type Source interface {
	Fill(p []byte) (n int, err error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(p []byte) (int, error)

// Fill calls f(p).
func (f SourceFunc) Fill(p []byte) (int, error) {
	return f(p)
}

// ReaderSource adapts an io.Reader to Source.
func ReaderSource(r io.Reader) Source {
	return SourceFunc(r.Read)
}

// BytesSource returns a Source over an in-memory slice.
func BytesSource(data []byte) Source {
	return &bytesSource{data: data}
}

type bytesSource struct {
	data []byte
}

func (s *bytesSource) Fill(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	if len(s.data) == 0 {
		return n, io.EOF
	}
	return n, nil
}
