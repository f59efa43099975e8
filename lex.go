package smartcalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// neg marks an identifier or open bracket preceded by a unary minus.
	// Number tokens carry their sign in text instead.
	neg bool
}

func (t lexToken) String() string {
	s := t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
	if t.neg {
		s = "-" + s
	}
	return s
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer literal, possibly with a leading minus.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenOp is a binary operator.
	tokenOp
	// tokenOpen is an open bracket.
	tokenOpen
	// tokenClose is a close bracket.
	tokenClose
	// tokenNeg negates the value on top of the stack. The lexer never
	// produces it; the converter emits it when it closes a negated group.
	tokenNeg
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenNeg:
		return "Neg"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the bytes which are considered to be binary operators.
const Operators = "+-*/^"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	// operand is true when the next token must begin an operand, in which
	// case + and - are signs rather than operators.
	operand bool
	eof     bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:     src,
		rune:    1,
		operand: true,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is
// encountered, the result is an EOF token with a nil error. Subsequent calls
// return an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	neg := false
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				if neg {
					// A sign with nothing to apply to.
					l.buf.WriteByte('-')
					return tok, l.error("")
				}
				tok.kind = tokenEOF
				return tok, nil
			}
			return tok, err
		}
		switch {
		case isDigit(r):
			if neg {
				l.buf.WriteByte('-')
			}
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			l.operand = false
			return tok, nil
		case isLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			tok.neg = neg
			l.operand = false
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			tok.neg = neg
			l.operand = true
			return tok, nil
		case r == ')':
			if neg {
				l.buf.WriteString("-)")
				return tok, l.error("")
			}
			tok.text = ")"
			tok.kind = tokenClose
			l.operand = false
			return tok, nil
		case l.operand && r == '+':
			// Unary plus does nothing.
			tok.pos++
			continue
		case l.operand && r == '-':
			neg = !neg
			continue
		case strings.ContainsRune(Operators, r):
			if neg {
				l.buf.WriteByte('-')
				l.buf.WriteRune(r)
				return tok, l.error("")
			}
			tok.text = string(r)
			tok.kind = tokenOp
			l.operand = true
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

func (l *lexer) scanNum() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case isDigit(r):
			l.buf.WriteRune(r)
		case isLetter(r):
			// Alphanumeric runs must be all digits or all letters.
			l.buf.WriteRune(r)
			return l.error("number")
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case isLetter(r):
			l.buf.WriteRune(r)
		case isDigit(r):
			l.buf.WriteRune(r)
			return l.error("identifier")
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// isIdent returns whether s is a well-formed variable name.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "identifier", or the empty string (if a token kind hadn't been
	// decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
