package v1

type kvPair[T any] struct {
	key []byte
	val T
}

// revisionList records the values replaced by each update so that they can be restored in reverse order.
type revisionList[T any] struct {
	revs []*kvPair[T]
}

func newRevisionList[T any]() *revisionList[T] {
	return &revisionList[T]{
		revs: make([]*kvPair[T], 0),
	}
}

func (revlist *revisionList[T]) set(key []byte, val T) {
	revlist.revs = append(revlist.revs, &kvPair[T]{
		key: key,
		val: val,
	})
}

func (revlist *revisionList[T]) snapshot() int {
	return len(revlist.revs)
}

func (revlist *revisionList[T]) restores(snap int) []*kvPair[T] {
	if snap < 0 || snap > len(revlist.revs) {
		return nil
	}
	return revlist.revs[snap:]
}

func (revlist *revisionList[T]) revert(snap int) {
	if snap >= 0 && snap <= len(revlist.revs) {
		revlist.revs = revlist.revs[:snap]
	}
}

func (revlist *revisionList[T]) reset() {
	revlist.revs = revlist.revs[:0]
}
