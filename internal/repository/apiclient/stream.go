package apiclient

import "io"

// ChatStream is a finite, non-restartable sequence of text chunks read from
// a streamed response body. Recv returns io.EOF exactly once the stream has
// ended; any other error is sticky and terminates the sequence early.
type ChatStream struct {
	body io.ReadCloser
	buf  []byte
	err  error
}

func newChatStream(body io.ReadCloser) *ChatStream {
	return &ChatStream{
		body: body,
		buf: make([]byte, 4096),
	}
}

// Recv blocks until the next chunk arrives and returns its text. Chunk
// boundaries follow the transport: concatenating every returned chunk in
// order reproduces the reply byte for byte.
func (s *ChatStream) Recv() (string, error) {
	if s.err != nil {
		return "", s.err
	}

	for {
		n, err := s.body.Read(s.buf)
		if n > 0 {
			if err != nil {
				// Deliver the final chunk now, surface the error on the
				// next call.
				s.err = err
			}
			return string(s.buf[:n]), nil
		}
		if err != nil {
			s.err = err
			return "", err
		}
	}
}

func (s *ChatStream) Close() error {
	return s.body.Close()
}
