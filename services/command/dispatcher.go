package command

import "powermodule-go/errcode"

const (
	// MaxResponse bounds a framed response, terminator included.
	MaxResponse = 64

	terminator = "\r\n"
	errReply   = "ERR" + terminator
)

// Dispatcher turns one command line into exactly one framed response.
type Dispatcher struct {
	root *Node
}

func NewDispatcher(root *Node) *Dispatcher { return &Dispatcher{root: root} }

// Execute parses and runs line, returning the unframed payload.
func (d *Dispatcher) Execute(line string) (string, error) {
	r, err := Parse(line)
	if err != nil {
		return "", err
	}
	return d.root.Execute(r)
}

// Dispatch returns the framed response for line: the payload followed by
// CRLF, or "ERR\r\n" on any failure.
func (d *Dispatcher) Dispatch(line string) string {
	payload, err := d.Execute(line)
	if err != nil {
		println("[cmd]", line, "->", string(errcode.Of(err)))
		return errReply
	}
	if max := MaxResponse - len(terminator); len(payload) > max {
		payload = payload[:max]
	}
	return payload + terminator
}
