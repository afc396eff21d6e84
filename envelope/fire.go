package envelope

import (
	"fmt"

	"github.com/opd-ai/gamesdk/handle"
	"github.com/sirupsen/logrus"
)

// Fire delivers to the envelope registered under id in t. deliver receives
// the target and runs inside an attached bridge scope, so any payload
// decoding it does happens after attachment.
//
// A single-shot envelope is removed from t before delivery and is spent
// even if attachment fails. A persistent envelope stays registered.
func Fire(t *handle.Table, id uintptr, deliver func(target any)) error {
	v, ok := t.Lookup(id)
	if !ok {
		return spent(id, "")
	}
	e, ok := v.(*Envelope)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotEnvelope, id)
	}

	target := e.target
	if e.kind == SingleShot {
		if _, won := t.Take(id); !won {
			return spent(id, e.name)
		}
		e.state.Store(int32(Fired))
		e.owner.forget(id)
	} else if e.State() != Armed {
		return spent(id, e.name)
	}

	if !e.owner.bridge.Call(e.name, func() { deliver(target) }) {
		logrus.WithFields(logrus.Fields{
			"function": "envelope.Fire",
			"callback": e.name,
			"kind":     e.kind.String(),
			"id":       id,
		}).Warn("Callback delivery lost")
	}
	return nil
}

func spent(id uintptr, name string) error {
	logrus.WithFields(logrus.Fields{
		"function": "envelope.Fire",
		"callback": name,
		"id":       id,
	}).Error("Native code fired a spent or unknown envelope")
	return fmt.Errorf("%w: id %d", ErrEnvelopeSpent, id)
}
