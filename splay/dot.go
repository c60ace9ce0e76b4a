package splay

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). label, if non-nil, adds a caption for the payload
// of each entry.
func (t *Tree[V]) WriteDot(w io.Writer, label func(V) string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("strict digraph {\n")
	bw.WriteString("\tnode [fontname=Arial,fontsize=12];\n")
	var edges []string
	nilid := len(t.nodes) + 1
	emptyChild := func(parent ref) {
		fmt.Fprintf(bw, "\t\"%d\" %s;\n", nilid, emptyNode)
		edges = append(edges, fmt.Sprintf("\t\"%d\" -> \"%d\";\n", parent, nilid))
		nilid++
	}
	var stack []ref
	if t.root != nilRef {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.at(r)
		caption := fmt.Sprintf("%d/%d\\n(%d/%d)", n.xCount, n.yCount, n.xSize, n.ySize)
		if label != nil {
			caption += "\\n“" + label(n.value) + "”"
		}
		fmt.Fprintf(bw, "\t\"%d\" [label=\"%s\"%s];\n", r, caption, nodeStyle)
		for _, child := range []ref{n.left, n.right} {
			if child == nilRef {
				if n.left != nilRef || n.right != nilRef {
					emptyChild(r)
				}
				continue
			}
			edges = append(edges, fmt.Sprintf("\t\"%d\" -> \"%d\";\n", r, child))
			stack = append(stack, child)
		}
	}
	for _, e := range edges {
		bw.WriteString(e)
	}
	bw.WriteString("}\n")
	if err := bw.Flush(); err != nil {
		tracer().Errorf("splay DOT: %s", err.Error())
		return err
	}
	return nil
}

const emptyNode = "[label=\"\",color=black,shape=circle,fixedsize=true,width=.2]"

const nodeStyle = ",style=filled,color=black,fillcolor=\"#a3d7e4\",shape=box"
