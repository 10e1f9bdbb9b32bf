// Package message implements the header-plus-body format shared by
// commit and tag object bodies: an ordered sequence of possibly-folded
// header lines, a blank line, and an opaque text payload.
package message

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/forge-vcs/forge/internal/forgeerr"
)

// Header is a single (key, value) pair in parse order. Duplicate keys
// are represented as multiple Header entries, preserving order.
type Header struct {
	Key   string
	Value string
}

// Message is a parsed header-plus-body object body.
type Message struct {
	Headers []Header
	Text    []byte
}

// Get returns the value of the first header with the given key, and
// whether one was found.
func (m *Message) Get(key string) (string, bool) {
	for _, h := range m.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// GetAll returns the values of every header with the given key, in order.
func (m *Message) GetAll(key string) []string {
	var vals []string
	for _, h := range m.Headers {
		if h.Key == key {
			vals = append(vals, h.Value)
		}
	}
	return vals
}

// Parse decodes bytes into a Message by an iterative cursor walk (the
// design notes call for this over recursion): find the next SP and LF
// from the cursor; if the LF precedes the SP (or no SP exists) the
// cursor sits on the blank separator line and the remainder is the
// text payload. Otherwise the key runs cursor..SP and the value runs
// SP+1 up to the first LF not followed by SP, unfolding every `LF SP`
// inside it to `LF`.
func Parse(data []byte) (*Message, error) {
	msg := &Message{}
	cursor := 0

	for {
		rest := data[cursor:]
		sp := bytes.IndexByte(rest, ' ')
		lf := bytes.IndexByte(rest, '\n')

		blankLine := sp < 0 || (lf >= 0 && lf < sp)
		if blankLine {
			if lf < 0 {
				return nil, forgeerr.New(forgeerr.MalformedCannotParse, "missing blank line separator")
			}
			msg.Text = data[cursor+lf+1:]
			return msg, nil
		}

		key := string(rest[:sp])
		valueStart := sp + 1

		end := valueStart
		for {
			nl := bytes.IndexByte(rest[end:], '\n')
			if nl < 0 {
				return nil, forgeerr.New(forgeerr.MalformedCannotParse, "unterminated header value for "+key)
			}
			absNL := end + nl
			if absNL+1 < len(rest) && rest[absNL+1] == ' ' {
				end = absNL + 2
				continue
			}
			end = absNL
			break
		}

		rawValue := rest[valueStart:end]
		value := strings.ReplaceAll(string(rawValue), "\n ", "\n")
		msg.Headers = append(msg.Headers, Header{Key: key, Value: value})

		cursor += end + 1
	}
}

// Emit renders a Message back to bytes: each header as `key SP
// fold(value) LF`, a blank line, then the text payload verbatim. fold
// replaces every LF inside value with "LF SP" so Parse can unfold it.
func Emit(msg *Message) []byte {
	var buf bytes.Buffer
	for _, h := range msg.Headers {
		buf.WriteString(h.Key)
		buf.WriteByte(' ')
		buf.WriteString(strings.ReplaceAll(h.Value, "\n", "\n "))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(msg.Text)
	return buf.Bytes()
}

// Identity is a parsed author/committer/tagger line: "<name> <<email>>
// <unix-seconds> <tz-offset>".
type Identity struct {
	Name    string
	Email   string
	Seconds int64
	TZ      string
}

// ParseIdentity locates '<', the matching '>', and the space separating
// the Unix timestamp from the timezone offset.
func ParseIdentity(line string) (*Identity, error) {
	open := strings.Index(line, "<")
	if open < 0 || open == 0 {
		return nil, forgeerr.New(forgeerr.MalformedIdentity, line)
	}
	close := strings.Index(line[open:], ">")
	if close < 0 {
		return nil, forgeerr.New(forgeerr.MalformedIdentity, line)
	}
	close += open

	name := strings.TrimSuffix(line[:open], " ")
	email := line[open+1 : close]

	remainder := strings.TrimPrefix(line[close+1:], " ")
	fields := strings.Fields(remainder)
	if len(fields) != 2 {
		return nil, forgeerr.New(forgeerr.MalformedIdentity, line)
	}

	seconds, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, forgeerr.New(forgeerr.MalformedIdentity, line)
	}

	return &Identity{Name: name, Email: email, Seconds: seconds, TZ: fields[1]}, nil
}

// EmitIdentity renders an Identity back to its wire form.
func EmitIdentity(id *Identity) string {
	return id.Name + " <" + id.Email + "> " + strconv.FormatInt(id.Seconds, 10) + " " + id.TZ
}
