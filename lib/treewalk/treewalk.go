/*
	Generic pre- and post-order traversal of trees.

	The walk keeps an explicit stack rather than recursing, so the depth of
	the tree being walked doesn't matter, and nodes are free to produce their
	children lazily (e.g. reading a directory only when it is reached).
*/
package treewalk

import (
	"errors"
)

type Node interface {
	// Returns the next child, or nil when all children have been returned.
	// Each call advances an iterator held by the node.
	NextChild() Node
}

type VisitFn func(node Node) error

// SkipNode may be returned by a pre-visit func to skip the node's children.
// The post-visit func is not called for a skipped node.
var SkipNode = errors.New("skip node")

/*
	Walks a tree starting at root.

	preVisit is called on a node before any of its children are requested;
	postVisit is called after all of its children have been visited.
	Either may be nil.  Any error other than SkipNode halts the walk
	and is returned.
*/
func Walk(root Node, preVisit VisitFn, postVisit VisitFn) error {
	if root == nil {
		return nil
	}
	switch err := visit(preVisit, root); err {
	case nil:
	case SkipNode:
		return nil
	default:
		return err
	}
	stack := []Node{root}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		child := top.NextChild()
		if child == nil {
			stack = stack[:len(stack)-1]
			if err := visit(postVisit, top); err != nil {
				return err
			}
			continue
		}
		switch err := visit(preVisit, child); err {
		case nil:
			stack = append(stack, child)
		case SkipNode:
			// don't descend.
		default:
			return err
		}
	}
	return nil
}

func visit(fn VisitFn, node Node) error {
	if fn == nil {
		return nil
	}
	return fn(node)
}
