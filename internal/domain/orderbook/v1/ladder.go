package orderbookv1

// Ladder is an ordered set of prices, each backing a *Level, implemented
// as a red-black tree keyed by int64 price. It gives the O(log N)
// min/max/insert/remove and O(log N) successor/predecessor traversal
// spec §4.3 requires, without the source's trick of negating bid-side
// keys to reuse an ascending-only structure (spec.md §9 flags that
// encoding as something a comparator-free rewrite should drop). Two
// independent Ladders back the bid and ask sides; direction of
// traversal (descending for bids, ascending for asks) is the caller's
// concern, expressed by calling Max/NextLower vs Min/NextHigher.
type Ladder struct {
	root *rbNode
	nilN *rbNode
	size int
}

type rbColor bool

const (
	red   rbColor = false
	black rbColor = true
)

type rbNode struct {
	key    int64
	level  *Level
	color  rbColor
	left   *rbNode
	right  *rbNode
	parent *rbNode
}

// NewLadder returns an empty ladder.
func NewLadder() *Ladder {
	sentinel := &rbNode{color: black}
	return &Ladder{root: sentinel, nilN: sentinel}
}

// Size returns the number of populated price levels.
func (t *Ladder) Size() int { return t.size }

// Find returns the level at price, or nil if the price isn't in the ladder.
func (t *Ladder) Find(price int64) *Level {
	n := t.search(price)
	if n == t.nilN {
		return nil
	}
	return n.level
}

// Contains reports whether price is currently in the ladder.
func (t *Ladder) Contains(price int64) bool {
	return t.search(price) != t.nilN
}

// GetOrCreate returns the level at price, creating and inserting an empty
// one if it doesn't already exist.
func (t *Ladder) GetOrCreate(price int64) *Level {
	y := t.nilN
	x := t.root
	for x != t.nilN {
		y = x
		switch {
		case price < x.key:
			x = x.left
		case price > x.key:
			x = x.right
		default:
			return x.level
		}
	}

	lvl := NewLevel(price)
	z := &rbNode{key: price, level: lvl, color: red, left: t.nilN, right: t.nilN, parent: y}
	if y == t.nilN {
		t.root = z
	} else if price < y.key {
		y.left = z
	} else {
		y.right = z
	}
	t.insertFixup(z)
	t.size++
	return lvl
}

// Remove deletes price from the ladder. It is a no-op if price is absent.
func (t *Ladder) Remove(price int64) {
	z := t.search(price)
	if z == t.nilN {
		return
	}
	t.deleteNode(z)
	t.size--
}

// Min returns the lowest populated price, or (0, false) if the ladder is empty.
func (t *Ladder) Min() (int64, bool) {
	n := t.min(t.root)
	if n == t.nilN {
		return 0, false
	}
	return n.key, true
}

// Max returns the highest populated price, or (0, false) if the ladder is empty.
func (t *Ladder) Max() (int64, bool) {
	n := t.max(t.root)
	if n == t.nilN {
		return 0, false
	}
	return n.key, true
}

// NextHigher returns the smallest populated price strictly greater than
// price, or (0, false) if none exists. price need not itself be present.
func (t *Ladder) NextHigher(price int64) (int64, bool) {
	n := t.root
	succ := t.nilN
	for n != t.nilN {
		if price < n.key {
			succ = n
			n = n.left
		} else {
			n = n.right
		}
	}
	if succ == t.nilN {
		return 0, false
	}
	return succ.key, true
}

// NextLower returns the largest populated price strictly less than
// price, or (0, false) if none exists. price need not itself be present.
func (t *Ladder) NextLower(price int64) (int64, bool) {
	n := t.root
	pred := t.nilN
	for n != t.nilN {
		if price > n.key {
			pred = n
			n = n.right
		} else {
			n = n.left
		}
	}
	if pred == t.nilN {
		return 0, false
	}
	return pred.key, true
}

// Prices returns every populated price in ascending order.
func (t *Ladder) Prices() []int64 {
	out := make([]int64, 0, t.size)
	for n := t.min(t.root); n != t.nilN; n = t.next(n) {
		out = append(out, n.key)
	}
	return out
}

// PricesDescending returns every populated price in descending order.
func (t *Ladder) PricesDescending() []int64 {
	out := make([]int64, 0, t.size)
	for n := t.max(t.root); n != t.nilN; n = t.prev(n) {
		out = append(out, n.key)
	}
	return out
}

/* ---- internal red-black tree machinery ---- */

func (t *Ladder) search(price int64) *rbNode {
	n := t.root
	for n != t.nilN {
		switch {
		case price < n.key:
			n = n.left
		case price > n.key:
			n = n.right
		default:
			return n
		}
	}
	return t.nilN
}

func (t *Ladder) min(n *rbNode) *rbNode {
	if n == t.nilN {
		return t.nilN
	}
	for n.left != t.nilN {
		n = n.left
	}
	return n
}

func (t *Ladder) max(n *rbNode) *rbNode {
	if n == t.nilN {
		return t.nilN
	}
	for n.right != t.nilN {
		n = n.right
	}
	return n
}

func (t *Ladder) next(n *rbNode) *rbNode {
	if n.right != t.nilN {
		return t.min(n.right)
	}
	p := n.parent
	for p != t.nilN && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

func (t *Ladder) prev(n *rbNode) *rbNode {
	if n.left != t.nilN {
		return t.max(n.left)
	}
	p := n.parent
	for p != t.nilN && n == p.left {
		n = p
		p = p.parent
	}
	return p
}

func (t *Ladder) leftRotate(x *rbNode) {
	y := x.right
	x.right = y.left
	if y.left != t.nilN {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nilN {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *Ladder) rightRotate(y *rbNode) {
	x := y.left
	y.left = x.right
	if x.right != t.nilN {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.nilN {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x
}

func (t *Ladder) insertFixup(z *rbNode) {
	for z.parent.color == red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.leftRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.rightRotate(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.color == red {
				z.parent.color = black
				y.color = black
				z.parent.parent.color = red
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rightRotate(z)
				}
				z.parent.color = black
				z.parent.parent.color = red
				t.leftRotate(z.parent.parent)
			}
		}
	}
	t.root.color = black
}

func (t *Ladder) transplant(u, v *rbNode) {
	if u.parent == t.nilN {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *Ladder) deleteNode(z *rbNode) {
	y := z
	yOrigColor := y.color
	var x *rbNode

	if z.left == t.nilN {
		x = z.right
		t.transplant(z, z.right)
	} else if z.right == t.nilN {
		x = z.left
		t.transplant(z, z.left)
	} else {
		y = t.min(z.right)
		yOrigColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOrigColor == black {
		t.deleteFixup(x)
	}
}

func (t *Ladder) deleteFixup(x *rbNode) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.color = black
					w.color = red
					t.rightRotate(w)
					w = x.parent.right
				}
				w.color = x.parent.color
				x.parent.color = black
				w.right.color = black
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.color = black
				x.parent.color = red
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.color = red
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.color = black
					w.color = red
					t.leftRotate(x.parent)
					w = x.parent.left
				}
				w.color = x.parent.color
				x.parent.color = black
				w.left.color = black
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.color = black
}
