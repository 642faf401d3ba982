// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a full HTML document.
func ParseDocument(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseDocumentString parses an HTML document from a string.
func ParseDocumentString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

// RenderNode serializes a node subtree back to HTML.
func RenderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// getAttr returns the value of an attribute, or "".
func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// setAttr sets or replaces an attribute.
func setAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

// hasClass reports whether an element node carries a class.
func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findByClass returns the first element in the subtree with the class.
func findByClass(root *html.Node, class string) *html.Node {
	return findNode(root, func(n *html.Node) bool { return hasClass(n, class) })
}

// findAllByClass returns every element in the subtree with the class.
func findAllByClass(root *html.Node, class string) []*html.Node {
	return findNodes(root, func(n *html.Node) bool { return hasClass(n, class) })
}

// findByTag returns the first element with the given tag name.
func findByTag(root *html.Node, tag string) *html.Node {
	return findNode(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	})
}

// findAllByTag returns every element with the given tag name.
func findAllByTag(root *html.Node, tag string) []*html.Node {
	return findNodes(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	})
}

func findNode(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findNodes(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if root == nil {
		return out
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// nodeText returns the concatenated text content of a subtree.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// setText replaces the children of a node with a single text node.
func setText(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// removeChildren detaches all children of a node.
func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// cloneNode deep-copies a subtree. Clones are detached from any parent
// so they can be re-appended later, which is how the original menu is
// kept for Restore.
func cloneNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneNode(c))
	}
	return clone
}

// replaceChildren swaps a node's children for clones of another
// node's children.
func replaceChildren(dst, src *html.Node) {
	removeChildren(dst)
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		dst.AppendChild(cloneNode(c))
	}
}

// newElement creates a detached element node.
func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
		Attr:     attrs,
	}
}

// newLink creates an anchor element with an href and text content.
func newLink(href, text string) *html.Node {
	a := newElement("a", html.Attribute{Key: "href", Val: href})
	a.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return a
}
