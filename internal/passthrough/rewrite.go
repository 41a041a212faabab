package passthrough

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var rewrittenAttrs = map[string]bool{"href": true, "src": true, "action": true}

// RewriteHTML makes root-relative href/src/action values absolute against
// base's origin and injects <base href="base"> at the top of <head>.
// Protocol-relative ("//host/x") and already absolute values are left alone.
func RewriteHTML(doc []byte, base *url.URL) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	origin := base.Scheme + "://" + base.Host

	var head *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Head && head == nil {
				head = n
			}
			for i, a := range n.Attr {
				if a.Namespace == "" && rewrittenAttrs[a.Key] && isRootRelative(a.Val) {
					n.Attr[i].Val = origin + a.Val
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if head != nil {
		baseTag := &html.Node{
			Type:     html.ElementNode,
			Data:     "base",
			DataAtom: atom.Base,
			Attr:     []html.Attribute{{Key: "href", Val: base.String()}},
		}
		head.InsertBefore(baseTag, head.FirstChild)
	}

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func isRootRelative(v string) bool {
	return strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//")
}
