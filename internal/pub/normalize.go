package pub

import (
	"context"
	"fmt"
	"iter"
	"reflect"

	"github.com/qubelet/qsampler/internal/circuit"
	"github.com/qubelet/qsampler/internal/ctxlog"
)

// Normalize coerces one pub-like value, resolving an unset shot count to
// defaultShots.
func Normalize(like any, defaultShots int) (*Pub, error) {
	switch v := like.(type) {
	case *Pub:
		if v == nil {
			return nil, fmt.Errorf("nil pub")
		}
		return v, nil
	case *circuit.Circuit:
		return build(v, nil, defaultShots)
	case Spec:
		return normalizeSpec(v, defaultShots)
	case *Spec:
		if v == nil {
			return nil, fmt.Errorf("nil pub spec")
		}
		return normalizeSpec(*v, defaultShots)
	default:
		return nil, fmt.Errorf("invalid pub-like value of type %T", like)
	}
}

func normalizeSpec(s Spec, defaultShots int) (*Pub, error) {
	shots := defaultShots
	if s.Shots != nil {
		if *s.Shots <= 0 {
			return nil, fmt.Errorf("shots must be a positive integer, got %d", *s.Shots)
		}
		shots = *s.Shots
	}
	return build(s.Circuit, s.Params, shots)
}

// NormalizeBatch coerces a whole submission in order. The batch may be a
// slice of any pub-like mix or an iterator sequence; a bare pub-like where
// the batch was expected is rejected with a hint, since forgetting the
// wrapping slice is the common mistake.
func NormalizeBatch(ctx context.Context, batch any, defaultShots int) ([]*Pub, error) {
	logger := ctxlog.FromContext(ctx)
	if defaultShots <= 0 {
		return nil, fmt.Errorf("default shots must be a positive integer, got %d", defaultShots)
	}

	likes, err := collectLikes(batch)
	if err != nil {
		return nil, err
	}

	pubs := make([]*Pub, 0, len(likes))
	for i, like := range likes {
		p, err := Normalize(like, defaultShots)
		if err != nil {
			return nil, fmt.Errorf("pub %d: %w", i, err)
		}
		for _, w := range p.Warnings {
			logger.Warn("⚠️ Degenerate pub accepted.", "pub", i, "reason", w)
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

// collectLikes flattens the accepted batch containers into a single slice.
func collectLikes(batch any) ([]any, error) {
	switch v := batch.(type) {
	case nil:
		return nil, fmt.Errorf("no pubs were given")
	case *circuit.Circuit:
		return nil, fmt.Errorf("invalid pub batch: got a bare circuit; wrap it in a slice like Run(ctx, []any{circuit})")
	case Spec, *Spec, *Pub:
		return nil, fmt.Errorf("invalid pub batch: got a single pub; to run a single pub, wrap it in a slice like Run(ctx, []any{p})")
	case []any:
		return v, nil
	case []*circuit.Circuit:
		return widen(v), nil
	case []Spec:
		return widen(v), nil
	case []*Spec:
		return widen(v), nil
	case []*Pub:
		return widen(v), nil
	case iter.Seq[any]:
		var out []any
		for like := range v {
			out = append(out, like)
		}
		return out, nil
	default:
		rv := reflect.ValueOf(batch)
		if seq, ok := drainSeq(rv); ok {
			return seq, nil
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("invalid pub batch of type %T: want a slice of pub-like values", batch)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
}

// drainSeq recognizes any iter.Seq[T] by signature and drains it, so
// typed iterator sequences work without the caller converting elements
// to any first.
func drainSeq(rv reflect.Value) ([]any, bool) {
	t := rv.Type()
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, false
	}
	yt := t.In(0)
	if yt.Kind() != reflect.Func || yt.NumIn() != 1 || yt.NumOut() != 1 || yt.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	out := []any{}
	yield := reflect.MakeFunc(yt, func(args []reflect.Value) []reflect.Value {
		out = append(out, args[0].Interface())
		return []reflect.Value{reflect.ValueOf(true)}
	})
	rv.Call([]reflect.Value{yield})
	return out, true
}

func widen[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
