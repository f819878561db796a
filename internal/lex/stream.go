package lex

import "github.com/dekarrin/lumex/internal/token"

// Stream is a restartable sequence of already-lexed tokens. Once the cursor
// reaches the end, Next and Peek keep returning the trailing EndOfFile
// token forever.
type Stream struct {
	tokens []token.Token
	cur    int
}

// Next returns the current token and advances the stream by one.
func (s *Stream) Next() token.Token {
	t := s.Peek()
	if s.cur < len(s.tokens)-1 {
		s.cur++
	}
	return t
}

// Peek returns the current token without advancing the stream.
func (s *Stream) Peek() token.Token {
	if len(s.tokens) == 0 {
		return token.Token{Kind: token.EndOfFile}
	}
	return s.tokens[s.cur]
}

// HasNext reports whether the stream has not yet reached EndOfFile.
func (s *Stream) HasNext() bool {
	return s.Peek().Kind.ID() != token.EndOfFile.ID()
}

// Reset rewinds the stream to its first token so it can be replayed
// from cursor 0.
func (s *Stream) Reset() {
	s.cur = 0
}

// Len returns the total number of tokens in the stream, including the
// trailing EndOfFile.
func (s *Stream) Len() int {
	return len(s.tokens)
}
