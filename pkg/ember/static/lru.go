package static

// lruNode is a cached file in the recency list.
type lruNode struct {
	path string
	data []byte
	prev *lruNode
	next *lruNode
}

// lruList is a doubly-linked list of cached files.
// Most recently used files are at the front.
type lruList struct {
	head *lruNode
	tail *lruNode
	size int
}

// pushFront adds a file at the front of the list (most recently used).
func (l *lruList) pushFront(path string, data []byte) *lruNode {
	node := &lruNode{path: path, data: data}

	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}

	l.size++
	return node
}

// remove unlinks node from the list.
func (l *lruList) remove(node *lruNode) {
	if node == nil {
		return
	}

	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev, node.next = nil, nil
	l.size--
}

// moveToFront marks node as most recently used.
func (l *lruList) moveToFront(node *lruNode) {
	if node == nil || node == l.head {
		return
	}
	l.remove(node)

	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.size++
}

// back returns the least recently used node.
func (l *lruList) back() *lruNode {
	return l.tail
}
