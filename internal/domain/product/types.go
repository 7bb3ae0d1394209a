package product

import "errors"

var (
	ErrInvalidKind      = errors.New("invalid category kind")
	ErrInvalidCondition = errors.New("invalid product condition")
)

// Kind is derived from the product's category and determines the negotiation
// type: exchange requires offered products, donation forbids them.
type Kind string

const (
	KindExchange Kind = "exchange"
	KindDonation Kind = "donation"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) RequiresExchange() bool {
	return k == KindExchange
}

func NewKind(s string) (Kind, error) {
	kind := Kind(s)
	switch kind {
	case KindExchange, KindDonation:
		return kind, nil
	default:
		return "", ErrInvalidKind
	}
}

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

func (c Condition) String() string {
	return string(c)
}

func NewCondition(s string) (Condition, error) {
	cond := Condition(s)
	switch cond {
	case ConditionNew, ConditionUsed:
		return cond, nil
	default:
		return "", ErrInvalidCondition
	}
}
