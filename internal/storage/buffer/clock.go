package buffer

// clockNode is one entry of the circular tracked list.
type clockNode struct {
	frame FrameID
	ref   bool
	prev  *clockNode
	next  *clockNode
}

// ClockReplacer approximates least-recently-used eviction with a circular
// sweep over the tracked frames and one reference bit per frame.
// The hand position persists across Victim calls.
type ClockReplacer struct {
	nodes map[FrameID]*clockNode
	hand  *clockNode
}

func NewClockReplacer(poolSize int) *ClockReplacer {
	return &ClockReplacer{
		nodes: make(map[FrameID]*clockNode, poolSize),
	}
}

// Victim sweeps the clock hand: a set reference bit buys the frame one more
// cycle, a clear bit makes it the victim. Terminates because every bit seen
// set gets cleared before the hand comes around again.
func (c *ClockReplacer) Victim() (FrameID, bool) {
	if c.hand == nil {
		return InvalidFrame, false
	}
	for {
		if c.hand.ref {
			c.hand.ref = false
			c.hand = c.hand.next
			continue
		}
		victim := c.hand
		c.remove(victim)
		return victim.frame, true
	}
}

func (c *ClockReplacer) Pin(frameID FrameID) {
	if n, ok := c.nodes[frameID]; ok {
		c.remove(n)
	}
}

func (c *ClockReplacer) Unpin(frameID FrameID) {
	if _, ok := c.nodes[frameID]; ok {
		return
	}
	n := &clockNode{frame: frameID, ref: true}
	if c.hand == nil {
		n.prev, n.next = n, n
		c.hand = n
	} else {
		// insert right behind the hand so the new frame is swept last
		tail := c.hand.prev
		tail.next = n
		n.prev = tail
		n.next = c.hand
		c.hand.prev = n
	}
	c.nodes[frameID] = n
}

func (c *ClockReplacer) Size() int {
	return len(c.nodes)
}

func (c *ClockReplacer) remove(n *clockNode) {
	delete(c.nodes, n.frame)
	if n.next == n {
		c.hand = nil
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	if c.hand == n {
		c.hand = n.next
	}
}
