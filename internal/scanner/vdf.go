package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// vdfNode is one block of Valve's key/value text format. Values and child
// blocks share a namespace; lookups are case-insensitive because Steam
// writes key casing inconsistently across client versions.
type vdfNode struct {
	values   map[string]string
	children map[string]*vdfNode
	order    []string
}

func newVDFNode() *vdfNode {
	return &vdfNode{
		values:   make(map[string]string),
		children: make(map[string]*vdfNode),
	}
}

func (n *vdfNode) value(key string) string {
	return n.values[strings.ToLower(key)]
}

func (n *vdfNode) child(key string) *vdfNode {
	return n.children[strings.ToLower(key)]
}

// childKeys returns child block names in document order.
func (n *vdfNode) childKeys() []string {
	return n.order
}

type vdfToken struct {
	kind vdfTokenKind
	text string
}

type vdfTokenKind int

const (
	vdfTokenString vdfTokenKind = iota
	vdfTokenOpen
	vdfTokenClose
	vdfTokenEOF
)

// parseVDF reads a single root block, tolerating a leading root name
// ("AppState", "libraryfolders") the way the Steam client writes them.
func parseVDF(r io.Reader) (*vdfNode, error) {
	lexer := &vdfLexer{reader: bufio.NewReader(r)}
	root := newVDFNode()
	if err := parseVDFBlock(lexer, root, 0); err != nil {
		return nil, err
	}
	// Unwrap a solitary named root block so callers address fields directly.
	if len(root.values) == 0 && len(root.order) == 1 {
		return root.children[root.order[0]], nil
	}
	return root, nil
}

func parseVDFBlock(lexer *vdfLexer, node *vdfNode, depth int) error {
	if depth > 32 {
		return fmt.Errorf("vdf nesting exceeds depth %d", depth)
	}
	for {
		tok, err := lexer.next()
		if err != nil {
			return err
		}
		switch tok.kind {
		case vdfTokenEOF:
			if depth != 0 {
				return fmt.Errorf("unexpected end of input inside block")
			}
			return nil
		case vdfTokenClose:
			if depth == 0 {
				return fmt.Errorf("unexpected %q at top level", "}")
			}
			return nil
		case vdfTokenOpen:
			return fmt.Errorf("unexpected %q without a key", "{")
		case vdfTokenString:
			key := strings.ToLower(tok.text)
			next, err := lexer.next()
			if err != nil {
				return err
			}
			switch next.kind {
			case vdfTokenString:
				node.values[key] = next.text
			case vdfTokenOpen:
				child := newVDFNode()
				if err := parseVDFBlock(lexer, child, depth+1); err != nil {
					return err
				}
				node.children[key] = child
				node.order = append(node.order, key)
			default:
				return fmt.Errorf("key %q has no value", tok.text)
			}
		}
	}
}

type vdfLexer struct {
	reader *bufio.Reader
}

func (l *vdfLexer) next() (vdfToken, error) {
	for {
		ch, _, err := l.reader.ReadRune()
		if err == io.EOF {
			return vdfToken{kind: vdfTokenEOF}, nil
		}
		if err != nil {
			return vdfToken{}, err
		}
		switch {
		case ch == '{':
			return vdfToken{kind: vdfTokenOpen}, nil
		case ch == '}':
			return vdfToken{kind: vdfTokenClose}, nil
		case ch == '"':
			text, err := l.readString()
			if err != nil {
				return vdfToken{}, err
			}
			return vdfToken{kind: vdfTokenString, text: text}, nil
		case ch == '/':
			if err := l.skipComment(); err != nil {
				return vdfToken{}, err
			}
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			// skip whitespace
		default:
			return vdfToken{}, fmt.Errorf("unexpected character %q", ch)
		}
	}
}

func (l *vdfLexer) readString() (string, error) {
	var sb strings.Builder
	for {
		ch, _, err := l.reader.ReadRune()
		if err == io.EOF {
			return "", fmt.Errorf("unterminated string")
		}
		if err != nil {
			return "", err
		}
		switch ch {
		case '"':
			return sb.String(), nil
		case '\\':
			escaped, _, err := l.reader.ReadRune()
			if err != nil {
				return "", fmt.Errorf("unterminated escape")
			}
			switch escaped {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(escaped)
			}
		default:
			sb.WriteRune(ch)
		}
	}
}

func (l *vdfLexer) skipComment() error {
	ch, _, err := l.reader.ReadRune()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if ch != '/' {
		return fmt.Errorf("unexpected character %q", '/')
	}
	for {
		ch, _, err := l.reader.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if ch == '\n' {
			return nil
		}
	}
}
