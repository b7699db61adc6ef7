package tree

import (
	"sync/atomic"

	"github.com/benz9527/xtree/lib/infra"
)

type rbNode[K infra.OrderedKey, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	hasKV  bool
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) HasKeyVal() bool {
	if node == nil {
		return false
	}
	return node.hasKV
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) isNilLeaf() bool {
	return isNilLeaf[K, V](node)
}

func (node *rbNode[K, V]) isRed() bool {
	return isRed[K, V](node)
}

func (node *rbNode[K, V]) isBlack() bool {
	return isBlack[K, V](node)
}

func (node *rbNode[K, V]) isRoot() bool {
	return isRoot[K, V](node)
}

func (node *rbNode[K, V]) isLeaf() bool {
	return node != nil && node.left.isNilLeaf() && node.right.isNilLeaf()
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:

	}
	return nil
}

func (node *rbNode[K, V]) hasSibling() bool {
	return !node.isRoot() && node.sibling() != nil
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	return node.parent.sibling()
}

func (node *rbNode[K, V]) hasUncle() bool {
	return !node.isRoot() && node.parent.hasSibling()
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	return node.parent.parent
}

func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// pred returns the in-order predecessor, nil for the smallest node.
func (node *rbNode[K, V]) pred() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}
	aux := x.parent
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// succ returns the in-order successor, nil for the largest node.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}
	aux := x.parent
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

type rbTree[K infra.OrderedKey, V any] struct {
	root  *rbNode[K, V]
	count int64
}

func (tree *rbTree[K, V]) keyCompare(k1, k2 K) int64 {
	if k1 == k2 {
		return 0
	} else if k1 < k2 {
		return -1
	}
	return 1
}

func (tree *rbTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

/*
rotate is the only restructuring primitive. The child is hoisted into
its parent's position while the displaced inner subtree switches sides,
so the in-order sequence of keys is untouched. Colors are left alone,
recoloring is the caller's duty.

	     |                       |
	     P                       X
	    / \     rotate(X, P)    / \
	   X   S    ============>  L   P
	  / \                         / \
	 L   M                       M   S

The mirrored shape rotates the other way. A pair that is not directly
parent and child cannot be rotated and reports ErrRBTreeRotateNotRelated:
silently ignoring it would leave the rebalance state machines running on
a shape they misread.
*/
func (tree *rbTree[K, V]) rotate(child, parent *rbNode[K, V]) error {
	if child == nil || parent == nil || child.parent != parent {
		return infra.WrapErrorStack(ErrRBTreeRotateNotRelated)
	}

	gp := parent.parent
	dir := parent.Direction()
	if child == parent.left {
		parent.left, child.right = child.right, parent
	} else {
		parent.right, child.left = child.left, parent
	}

	parent.fixLink()
	child.fixLink()

	switch dir {
	case Root:
		tree.root = child
	case Left:
		gp.left = child
	case Right:
		gp.right = child
	}
	child.parent = gp
	return nil
}

// Insert stores a new key with its value. A nil value or an already
// present key is rejected before any mutation. The fresh node joins the
// tree as a red leaf, then the insert rebalance walks back toward the
// root. Whatever the rebalance did, the root is forced black at the end
// because a rotation may have hoisted a red node into the root slot.
func (tree *rbTree[K, V]) Insert(key K, val V) error {
	if isNilVal(val) {
		return infra.WrapErrorStack(ErrRBTreeNilValue)
	}

	if tree.root.isNilLeaf() {
		tree.root = &rbNode[K, V]{
			key:   key,
			val:   val,
			hasKV: true,
		}
		atomic.AddInt64(&tree.count, 1)
		return nil
	}

	var x, y *rbNode[K, V] = tree.root, nil
	for !x.isNilLeaf() {
		y = x
		res := tree.keyCompare(key, x.key)
		if /* equal */ res == 0 {
			return infra.WrapErrorStack(ErrRBTreeDuplicateValue)
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
		hasKV:  true,
	}
	if tree.keyCompare(key, y.key) < 0 {
		y.left = z
	} else {
		y.right = z
	}

	atomic.AddInt64(&tree.count, 1)
	if err := tree.insertRebalance(z); err != nil {
		return err
	}
	if !tree.root.isNilLeaf() {
		tree.root.color = Black
	}
	return nil
}

// Update replaces the value of an existing key. No structural change,
// no rebalance.
func (tree *rbTree[K, V]) Update(key K, val V) error {
	if isNilVal(val) {
		return infra.WrapErrorStack(ErrRBTreeNilValue)
	}
	x := tree.search(tree.root, key)
	if x == nil {
		return infra.WrapErrorStack(ErrRBTreeKeyNotFound)
	}
	x.val = val
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X is the root, repaint into black.

im2: X's parent is black, nothing to fix.

im3: X's parent is a red root, repaint the parent into black.

im4: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
Pull the blackness down from G. G may now clash with its own parent,
loop on G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im5: The parent P is red, the uncle U is black or missing, and X sits on
the opposite side to P (zig-zag). Rotate X above P to straighten the
line, then fall into im6 with the old parent as the new bottom node.

	  [G]                 [G]
	  / \    rotate(X,P)  / \
	<P> [U]  =========>  <X> [U]
	  \                  /
	  <X>              <P>

im6: Straight line: X and P on the same side. Rotate P above G and swap
their colors. The subtree root is black again, the loop terminates.

	    [G]                 <P>               [P]
	    / \    rotate(P,G)  / \    repaint    / \
	  <P> [U]  =========>  <X> [G]  ======>  <X> <G>
	  /                          \                 \
	<X>                          [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) error {
	for !x.isNilLeaf() {
		if /* im1 */ x.isRoot() {
			if x.isRed() {
				x.color = Black
			}
			return nil
		}

		if /* im2 */ x.parent.isBlack() {
			return nil
		}

		if /* im3 */ x.parent.isRoot() {
			x.parent.color = Black
			return nil
		}

		if /* im4 */ x.hasUncle() && x.uncle().isRed() {
			x.parent.color = Black
			x.uncle().color = Black
			gp := x.grandpa()
			gp.color = Red
			x = gp
			continue
		}

		dir := x.Direction()
		if /* im5 */ dir != x.parent.Direction() {
			p := x.parent
			if err := tree.rotate(x, p); err != nil {
				return err
			}
			x = p
		}

		/* im6 */
		p, gp := x.parent, x.grandpa()
		if err := tree.rotate(p, gp); err != nil {
			return err
		}
		p.color = Black
		gp.color = Red
		return nil
	}
	return nil
}

// Search walks from the root comparing keys. A miss returns nil, the
// tree is never mutated.
func (tree *rbTree[K, V]) Search(key K) RBNode[K, V] {
	x := tree.search(tree.root, key)
	if x == nil {
		return nil
	}
	return x
}

func (tree *rbTree[K, V]) search(x *rbNode[K, V], key K) *rbNode[K, V] {
	for aux := x; !aux.isNilLeaf(); {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *rbTree[K, V]) Minimum() RBNode[K, V] {
	aux := tree.root.minimum()
	if aux.isNilLeaf() {
		return nil
	}
	return aux
}

func (tree *rbTree[K, V]) Maximum() RBNode[K, V] {
	aux := tree.root.maximum()
	if aux.isNilLeaf() {
		return nil
	}
	return aux
}

/*
r1: Only a root node, unlink directly.

r2: Node Z holds both children. The in-order successor Y, the leftmost
node of Z's right subtree, has no left child, so Y is first spliced out
of its own slot through r3/r4, then transplanted into Z's position,
inheriting Z's links and color. This keeps Y's identity (no key/value
copying into a foreign node) and is the canonical transplant: whichever
side Y hung on, its old slot is patched the same way.

r3: (1) Y is a red leaf, unlink directly, black heights are untouched.

r3: (2) Y is a black leaf. Its removal would shorten every path through
it by one black node, the remove rebalance resolves that deficiency
while Y is still linked, then Y is unlinked.

r4: Y holds exactly one child. That child must be red (see conclusion
above), so splicing it up and repainting it black restores p4 locally.
*/
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) (res *rbNode[K, V], err error) {
	res = &rbNode[K, V]{
		key:   z.key,
		val:   z.val,
		hasKV: true,
	}

	if /* r1 */ atomic.LoadInt64(&tree.count) == 1 && z.isRoot() {
		tree.root = nil
		z.left = nil
		z.right = nil
		return res, nil
	}

	if /* r2 */ !z.left.isNilLeaf() && !z.right.isNilLeaf() {
		y := z.succ()
		if err = tree.spliceOut(y); err != nil {
			return nil, err
		}

		// The rebalance inside spliceOut may have rotated around Z, so
		// its links are read only now.
		y.left, y.right, y.color = z.left, z.right, z.color
		y.fixLink()
		switch dir := z.Direction(); dir {
		case Root:
			tree.root = y
			y.parent = nil
		case Left:
			z.parent.left = y
			y.parent = z.parent
		case Right:
			z.parent.right = y
			y.parent = z.parent
		}
	} else {
		if err = tree.spliceOut(z); err != nil {
			return nil, err
		}
	}

	z.parent = nil
	z.left = nil
	z.right = nil
	z.hasKV = false
	return res, nil
}

// spliceOut detaches a node with at most one child from its current
// slot, rebalancing first when a black leaf is about to vanish.
func (tree *rbTree[K, V]) spliceOut(y *rbNode[K, V]) error {
	if /* r3 */ y.isLeaf() {
		if /* r3 (2) */ y.isBlack() {
			if err := tree.removeRebalance(y); err != nil {
				return err
			}
		}
		switch dir := y.Direction(); dir {
		case Left:
			y.parent.left = nil
		case Right:
			y.parent.right = nil
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] splice out a lone root as leaf, violate (r3)")
		}
		y.parent = nil
		return nil
	}

	/* r4 */
	var replace *rbNode[K, V]
	if !y.right.isNilLeaf() {
		replace = y.right
	} else {
		replace = y.left
	}

	switch dir := y.Direction(); dir {
	case Root:
		tree.root = replace
		replace.parent = nil
	case Left:
		y.parent.left = replace
		replace.parent = y.parent
	case Right:
		y.parent.right = replace
		replace.parent = y.parent
	}

	if y.isBlack() {
		if replace.isRed() {
			replace.color = Black
		} else {
			// impossible under intact invariants, kept as a safety net
			if err := tree.removeRebalance(replace); err != nil {
				return err
			}
		}
	}

	y.parent = nil
	y.left = nil
	y.right = nil
	return nil
}

// Remove detaches the node holding the key and returns a detached
// record of it. A missing key is a normal miss: both results are nil,
// nothing is mutated.
func (tree *rbTree[K, V]) Remove(key K) (RBNode[K, V], error) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, nil
	}
	z := tree.search(tree.root, key)
	if z == nil {
		return nil, nil
	}
	res, err := tree.removeNode(z)
	if err != nil {
		return nil, err
	}
	atomic.AddInt64(&tree.count, -1)
	return res, nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], error) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, infra.WrapErrorStack(ErrRBTreeEmpty)
	}
	_min := tree.root.minimum()
	if _min.isNilLeaf() {
		return nil, infra.WrapErrorStack(ErrRBTreeEmpty)
	}
	res, err := tree.removeNode(_min)
	if err != nil {
		return nil, err
	}
	atomic.AddInt64(&tree.count, -1)
	return res, nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the still-linked black leaf whose removal is pending. S is X's
sibling, which must exist (a missing sibling would already break p4).
Sc is S's child on the same side as X, Sd the one on the opposite side.
Missing nephews count as black.

rm1: S is red, so P, Sc and Sd are all black. Hoist S above P and swap
their colors. X's new sibling is the black Sc, reduces to rm2..rm5.

	  [P]                   <S>               [S]
	  / \    rotate(S,P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black and P is red. Swapping the colors of P and S
pays the missing black on X's side, done.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: P, S, Sc and Sd are all black. Repaint S red to fix p4 locally,
which leaves the whole subtree one black short: loop on P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: S is black, the near nephew Sc is red, the far one Sd is black.
Rotate Sc above S and swap their colors, turning the shape into rm5.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    rotate(Sc,S) [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: S is black and the far nephew Sd is red. Rotate S above P, give S
P's old color, paint P and Sd black. The deficiency is fully absorbed,
the loop terminates.

	  {P}                   [S]                {S}
	  / \    rotate(S,P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x *rbNode[K, V]) error {
	for {
		if x.isRoot() {
			return nil
		}

		sibling := x.sibling()
		dir := x.Direction()
		if /* rm1 */ sibling.isRed() {
			if err := tree.rotate(sibling, x.parent); err != nil {
				return err
			}
			sibling.color = Black
			x.parent.color = Red
			sibling = x.sibling()
		}

		var sc, sd *rbNode[K, V]
		if dir == Left {
			sc, sd = sibling.left, sibling.right
		} else {
			sc, sd = sibling.right, sibling.left
		}

		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ x.parent.isRed() {
				sibling.color = Red
				x.parent.color = Black
				return nil
			}
			/* rm3 */
			sibling.color = Red
			x = x.parent
			continue
		}

		if /* rm4 */ sc.isRed() {
			if err := tree.rotate(sc, sibling); err != nil {
				return err
			}
			sc.color = Black
			sibling.color = Red
			sibling = x.sibling()
			if dir == Left {
				sd = sibling.right
			} else {
				sd = sibling.left
			}
		}

		/* rm5 */
		if err := tree.rotate(sibling, x.parent); err != nil {
			return err
		}
		sibling.color = x.parent.color
		x.parent.color = Black
		if !sd.isNilLeaf() {
			sd.color = Black
		}
		return nil
	}
}

// Foreach visits every pair in ascending key order, iteratively with an
// explicit stack. Returning false from the action stops the walk.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// Ascend collects all stored keys in strictly ascending order.
func (tree *rbTree[K, V]) Ascend() []K {
	keys := make([]K, 0, atomic.LoadInt64(&tree.count))
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// AscendValues collects all stored values in ascending key order.
func (tree *rbTree[K, V]) AscendValues() []V {
	vals := make([]V, 0, atomic.LoadInt64(&tree.count))
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

// Release drops every node, leaving an empty reusable tree.
func (tree *rbTree[K, V]) Release() {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	tree.root = nil
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		r := aux.right
		aux.right, aux.parent = nil, nil
		atomic.AddInt64(&tree.count, -1)
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func NewRBTree[K infra.OrderedKey, V any]() RBTree[K, V] {
	return &rbTree[K, V]{}
}
