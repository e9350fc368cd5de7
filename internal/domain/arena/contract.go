package arena

import "fmt"

type Contract struct {
	A         string `json:"a"`
	B         string `json:"b"`
	TurnsLeft int    `json:"turns_left"`
	Violated  bool   `json:"violated"`
}

func (c *Contract) binds(x, y string) bool {
	return (c.A == x && c.B == y) || (c.A == y && c.B == x)
}

type Offer struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Turns       int    `json:"turns"`
	CreatedTurn int    `json:"created_turn"`
}

type offerKey struct{ from, to string }

// Ledger tracks pending offers and contracts of one match. Offers iterate
// in first-insertion order; overwriting an offer keeps its slot.
type Ledger struct {
	offers    map[offerKey]Offer
	order     []offerKey
	contracts []*Contract
}

func newLedger() *Ledger {
	return &Ledger{offers: map[offerKey]Offer{}}
}

func (l *Ledger) offer(o Offer) {
	key := offerKey{o.From, o.To}
	if _, ok := l.offers[key]; !ok {
		l.order = append(l.order, key)
	}
	l.offers[key] = o
}

// accept promotes the offer from offerer to acceptor into a contract.
func (l *Ledger) accept(offerer, acceptor string) bool {
	key := offerKey{offerer, acceptor}
	o, ok := l.offers[key]
	if !ok {
		return false
	}
	l.dropOffer(key)
	l.contracts = append(l.contracts, &Contract{A: o.From, B: o.To, TurnsLeft: o.Turns})
	return true
}

func (l *Ledger) dropOffer(key offerKey) {
	delete(l.offers, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			return
		}
	}
}

// Bound reports whether an unexpired, unviolated contract ties x and y.
func (l *Ledger) Bound(x, y string) bool {
	for _, c := range l.contracts {
		if c.TurnsLeft > 0 && !c.Violated && c.binds(x, y) {
			return true
		}
	}
	return false
}

func (l *Ledger) violate(x, y string) {
	for _, c := range l.contracts {
		if c.binds(x, y) {
			c.Violated = true
		}
	}
}

// settle expires stale offers and ticks every live contract. It returns the
// pairs whose contract completed unviolated this turn.
func (l *Ledger) settle(turn, ttl int, events *eventLog) [][2]string {
	kept := l.order[:0]
	for _, key := range l.order {
		o := l.offers[key]
		if turn-o.CreatedTurn > ttl {
			delete(l.offers, key)
			events.add(fmt.Sprintf("Offer expired between %s and %s", o.From, o.To))
			continue
		}
		kept = append(kept, key)
	}
	l.order = kept

	var honored [][2]string
	for _, c := range l.contracts {
		if c.TurnsLeft <= 0 {
			continue
		}
		c.TurnsLeft--
		if c.TurnsLeft > 0 {
			continue
		}
		if c.Violated {
			events.add(fmt.Sprintf("%s and %s contract ended (violated)", c.A, c.B))
			continue
		}
		honored = append(honored, [2]string{c.A, c.B})
		events.add(fmt.Sprintf("%s and %s completed a non-aggression contract", c.A, c.B))
	}
	return honored
}

func (l *Ledger) Contracts() []Contract {
	out := make([]Contract, 0, len(l.contracts))
	for _, c := range l.contracts {
		out = append(out, *c)
	}
	return out
}

func (l *Ledger) Offers() []Offer {
	out := make([]Offer, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.offers[key])
	}
	return out
}
