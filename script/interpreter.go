package script

import (
	"iter"

	"dynafed.dev/signblock/consensus"
)

type State uint8

const (
	StateParsingPolicy State = iota
	StateAwaitingSlot
	StateSuspended
	StateAccumulating
	StateSatisfied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateParsingPolicy:
		return "parsing_policy"
	case StateAwaitingSlot:
		return "awaiting_slot"
	case StateSuspended:
		return "suspended"
	case StateAccumulating:
		return "accumulating"
	case StateSatisfied:
		return "satisfied"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Verdict decides a single slot. A non-nil error means the slot could not be
// checked at all and fails the interpretation like a false verdict.
type Verdict func(KeySigPair) (bool, error)

type StepResult struct {
	Index int
	Pair  KeySigPair
	State State
	Err   error
}

// Interpreter walks a signing policy against a witness one signature slot at
// a time. It never checks signatures itself: Next hands a pair out and
// suspends, Resolve takes the caller's verdict back in.
//
// Slot i is always checked against key i. A failed slot ends the walk; there
// is no skipping to a later key.
type Interpreter struct {
	policy   *Policy
	slots    [][]byte
	state    State
	next     int
	verified int
	current  KeySigPair
	failedAt int
	err      error
}

// NewInterpreter parses the policy and lays the witness out into signature
// slots. Any mismatch between witness shape and policy is structural.
func NewInterpreter(signBlockScript []byte, witness [][]byte) (*Interpreter, error) {
	it := &Interpreter{state: StateParsingPolicy, failedAt: -1}

	p, stack, err := ResolvePolicy(signBlockScript, witness)
	if err != nil {
		return nil, err
	}
	want := p.StackSize()
	if len(stack) < want {
		return nil, structural("witness has %d stack elements, %s policy requires %d", len(stack), p.Kind, want)
	}
	if len(stack) > want {
		return nil, structural("witness has %d stack elements, %s policy consumes %d", len(stack), p.Kind, want)
	}
	slots := stack
	if p.Kind == PolicyMulti {
		if len(stack[0]) != 0 {
			return nil, structural("checkmultisig dummy element is not empty")
		}
		slots = stack[1:]
	}

	it.policy = p
	it.slots = slots
	it.state = StateAwaitingSlot
	return it, nil
}

func (it *Interpreter) Policy() *Policy { return it.policy }
func (it *Interpreter) State() State    { return it.state }
func (it *Interpreter) Err() error      { return it.err }

// Slots is the number of signature checks the policy requires.
func (it *Interpreter) Slots() int { return len(it.slots) }

// Verified is the number of slots that have received a true verdict.
func (it *Interpreter) Verified() int { return it.verified }

// FailedAt is the slot index that failed, or -1.
func (it *Interpreter) FailedAt() int { return it.failedAt }

func (it *Interpreter) Done() bool {
	return it.state == StateSatisfied || it.state == StateFailed
}

// Next yields the pair for the next slot and suspends until Resolve. It
// returns false when there is nothing to verify: the interpreter is done,
// already suspended, or the slot itself is unusable (which fails it).
func (it *Interpreter) Next() (KeySigPair, bool) {
	if it.state != StateAwaitingSlot {
		return KeySigPair{}, false
	}
	i := it.next
	elem := it.slots[i]
	kind, err := classifySlot(i, elem)
	if err != nil {
		it.fail(i, err)
		return KeySigPair{}, false
	}
	it.current = KeySigPair{
		Index:     i,
		PubKey:    it.policy.Keys[i],
		Signature: elem[:len(elem)-1],
		HashType:  elem[len(elem)-1],
		Kind:      kind,
	}
	it.state = StateSuspended
	return it.current, true
}

// Resolve records the verdict for the suspended slot. It is a no-op unless
// the interpreter is suspended.
func (it *Interpreter) Resolve(ok bool, err error) {
	if it.state != StateSuspended {
		return
	}
	it.state = StateAccumulating
	i := it.current.Index
	switch {
	case err != nil:
		it.fail(i, consensus.Errorf(consensus.SIGNBLOCK_ERR_SIG_REJECTED, "slot %d: %v", i, err))
	case !ok:
		it.fail(i, consensus.Errorf(consensus.SIGNBLOCK_ERR_SIG_REJECTED, "slot %d: signature invalid for key %x", i, it.current.PubKey))
	default:
		it.verified++
		it.next++
		if it.next < len(it.slots) {
			it.state = StateAwaitingSlot
			return
		}
		it.settle()
	}
}

// settle is the only way into StateSatisfied. Success needs every slot
// verified and at least Threshold of them; reaching the end without failures
// is not enough on its own.
func (it *Interpreter) settle() {
	if it.verified < it.policy.Threshold || it.verified != len(it.slots) {
		it.fail(it.next, consensus.Errorf(consensus.SIGNBLOCK_ERR_SIG_REJECTED,
			"%d of %d required signatures verified", it.verified, it.policy.Threshold))
		return
	}
	it.state = StateSatisfied
}

func (it *Interpreter) fail(index int, err error) {
	it.state = StateFailed
	it.failedAt = index
	it.err = err
}

// Step runs one Next/Resolve round with v as the verdict provider. A slot
// left suspended by a bare Next call is resolved first.
func (it *Interpreter) Step(v Verdict) StepResult {
	pair, ok := it.current, it.state == StateSuspended
	if !ok {
		pair, ok = it.Next()
	}
	if !ok {
		return StepResult{Index: it.failedAt, State: it.state, Err: it.err}
	}
	verdict, err := v(pair)
	it.Resolve(verdict, err)
	return StepResult{Index: pair.Index, Pair: pair, State: it.state, Err: it.err}
}

// Steps drives the interpreter to completion, yielding each verified slot
// index with a nil error, or the failing index with its error as the last
// element.
func (it *Interpreter) Steps(v Verdict) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for !it.Done() {
			r := it.Step(v)
			if r.Err != nil {
				yield(r.Index, r.Err)
				return
			}
			if !yield(r.Index, nil) {
				return
			}
		}
	}
}
