package tree

import (
	"strconv"
	"strings"
)

// Path identifies a node by its position from the root, encoded as a JSON
// Pointer (RFC 6901). The root is the empty path. Paths survive re-parsing
// equivalent documents, unlike node identity.
type Path string

// Root is the path of the top-level value.
const Root Path = ""

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Child returns the path of an object member.
func (p Path) Child(key string) Path {
	return p + "/" + Path(pointerEscaper.Replace(key))
}

// Index returns the path of an array element.
func (p Path) Index(i int) Path {
	return p + "/" + Path(strconv.Itoa(i))
}

// Depth returns the number of steps from the root.
func (p Path) Depth() int {
	return strings.Count(string(p), "/")
}

// Segments returns the unescaped steps of the path.
func (p Path) Segments() []string {
	if p == Root {
		return nil
	}
	parts := strings.Split(string(p)[1:], "/")
	for i, part := range parts {
		parts[i] = pointerUnescaper.Replace(part)
	}
	return parts
}

func (p Path) String() string {
	if p == Root {
		return "/"
	}
	return string(p)
}
