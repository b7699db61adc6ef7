package tree

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// String renders the stored keys in level order (breadth first), comma
// separated inside brackets, e.g. [5, 3, 8, 1, 4, 7, 9]. The shape of
// the output mirrors the physical layout layer by layer, which makes it
// handy for pinning rebalance outcomes in tests. An empty tree renders
// as [].
func (tree *rbTree[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	if !tree.root.isNilLeaf() {
		queue := make([]*rbNode[K, V], 0, atomic.LoadInt64(&tree.count))
		queue = append(queue, tree.root)
		for len(queue) > 0 {
			aux := queue[0]
			queue = queue[1:]
			if aux.left != nil {
				queue = append(queue, aux.left)
			}
			if aux.right != nil {
				queue = append(queue, aux.right)
			}
			_, _ = fmt.Fprintf(&sb, "%v", aux.key)
			if len(queue) > 0 {
				sb.WriteString(", ")
			}
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
