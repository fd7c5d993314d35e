package command

import (
	"strings"

	"powermodule-go/errcode"

	"github.com/google/shlex"
)

// Node is one level of the command hierarchy. Mnemonic is written in
// mixed case: the upper-case prefix is the accepted short form and the
// whole word the long form.
type Node struct {
	Mnemonic string
	Children []*Node

	Event func(params []string) error
	Query func(params []string) (string, error)

	// Default names the child run when a header stops at this node as an
	// event and the node has no Event of its own.
	Default string
}

// Request is a parsed command line.
type Request struct {
	Path   []string
	Query  bool
	Params []string
}

// Parse splits a line into header path and parameters.
func Parse(line string) (Request, error) {
	line = strings.TrimSpace(line)
	header, rest := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		header, rest = line[:i], line[i+1:]
	}
	var r Request
	header = strings.TrimPrefix(header, ":")
	if strings.HasSuffix(header, "?") {
		r.Query = true
		header = header[:len(header)-1]
	}
	if header == "" {
		return r, errcode.Wrap(errcode.UnknownCommand, "parse", line)
	}
	r.Path = strings.Split(header, ":")
	if rest = strings.TrimSpace(rest); rest != "" {
		params, err := shlex.Split(rest)
		if err != nil {
			return r, &errcode.E{C: errcode.InvalidParams, Op: "parse", Msg: rest, Err: err}
		}
		r.Params = params
	}
	return r, nil
}

// Matches reports whether seg names this node, case-insensitively, by
// short or long form.
func (n *Node) Matches(seg string) bool {
	if seg == "" {
		return false
	}
	long := strings.ToUpper(n.Mnemonic)
	if strings.EqualFold(seg, long) {
		return true
	}
	short := shortForm(n.Mnemonic)
	return short != long && strings.EqualFold(seg, short)
}

func shortForm(m string) string {
	i := 0
	for i < len(m) && !(m[i] >= 'a' && m[i] <= 'z') {
		i++
	}
	return m[:i]
}

func (n *Node) child(seg string) *Node {
	for _, c := range n.Children {
		if c.Matches(seg) {
			return c
		}
	}
	return nil
}

// Resolve walks path from n.
func (n *Node) Resolve(path []string) (*Node, error) {
	cur := n
	for _, seg := range path {
		next := cur.child(seg)
		if next == nil {
			return nil, errcode.Wrap(errcode.UnknownCommand, "resolve", strings.Join(path, ":"))
		}
		cur = next
	}
	return cur, nil
}

// Execute runs the request against the tree rooted at n and returns the
// query payload (empty for events).
func (n *Node) Execute(r Request) (string, error) {
	node, err := n.Resolve(r.Path)
	if err != nil {
		return "", err
	}
	if r.Query {
		if node.Query == nil {
			return "", errcode.Wrap(errcode.NotQuery, "execute", node.Mnemonic)
		}
		return node.Query(r.Params)
	}
	if node.Event == nil && node.Default != "" {
		if d := node.child(node.Default); d != nil {
			node = d
		}
	}
	if node.Event == nil {
		return "", errcode.Wrap(errcode.NotEvent, "execute", node.Mnemonic)
	}
	return "", node.Event(r.Params)
}
