package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/dispatch"
	"github.com/opd-ai/gamesdk/model"
)

// RelationshipManager reads the current user's relationship list.
//
// The list is filtered before it can be read: Filter selects the entries
// that Count and GetAt see until the next Filter. OnRelationshipRefresh
// means the list changed and should be filtered again.
type RelationshipManager struct {
	manager
}

// Filter runs keep over every relationship before it returns. keep is
// called on the calling goroutine.
func (r *RelationshipManager) Filter(keep func(model.Relationship) bool) error {
	if keep == nil {
		return ErrNilCallback
	}
	id, err := r.core.envelopes.Persist(abi.RelationshipFilter.String(), dispatch.FilterFunc(keep))
	if err != nil {
		return err
	}
	defer r.core.envelopes.Release(id)

	_, err = r.call(abi.RelationshipFilter, id, r.core.table.Filter)
	return err
}

// Count returns the number of relationships that passed the last Filter.
func (r *RelationshipManager) Count() (int, error) {
	var f frame
	defer f.release()
	n := new(int32)
	if err := r.check(abi.RelationshipCount, ref(&f, n)); err != nil {
		return 0, err
	}
	return int(*n), nil
}

// Get returns the relationship with userID, filtered or not.
func (r *RelationshipManager) Get(userID int64) (model.Relationship, error) {
	var f frame
	defer f.release()
	rec := new(abi.Relationship)
	if err := r.check(abi.RelationshipGet, uintptr(userID), ref(&f, rec)); err != nil {
		return model.Relationship{}, err
	}
	return codec.DecodeRelationship(rec), nil
}

// GetAt returns the filtered relationship at index.
func (r *RelationshipManager) GetAt(index uint32) (model.Relationship, error) {
	var f frame
	defer f.release()
	rec := new(abi.Relationship)
	if err := r.check(abi.RelationshipGetAt, uintptr(index), ref(&f, rec)); err != nil {
		return model.Relationship{}, err
	}
	return codec.DecodeRelationship(rec), nil
}

// All returns every relationship that passed the last Filter, in order.
func (r *RelationshipManager) All() ([]model.Relationship, error) {
	n, err := r.Count()
	if err != nil {
		return nil, err
	}
	rels := make([]model.Relationship, 0, n)
	for i := 0; i < n; i++ {
		rel, err := r.GetAt(uint32(i))
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}
