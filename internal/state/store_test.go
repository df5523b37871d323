package state

import (
	"errors"
	"testing"

	"financeiro/internal/core"
)

func TestStoreApplyAndAdopt(t *testing.T) {
	r := newTestReducer()
	st := NewStore()
	if st.Loaded() {
		t.Fatalf("new store must not be loaded")
	}

	var origins []Origin
	st.Subscribe(func(_ core.AppState, o Origin) { origins = append(origins, o) })

	st.Adopt(r.InitializeDefault())
	if !st.Loaded() {
		t.Fatalf("store must be loaded after Adopt")
	}

	doc, err := st.Apply(func(s core.AppState) (core.AppState, error) {
		return r.AddToReserve(s, 50), nil
	})
	if err != nil || doc.Reserve != 50 {
		t.Fatalf("Apply: reserve=%v err=%v", doc.Reserve, err)
	}
	if st.Snapshot().Reserve != 50 {
		t.Fatalf("snapshot not updated")
	}

	boom := errors.New("boom")
	if _, err := st.Apply(func(s core.AppState) (core.AppState, error) {
		s.Reserve = 999
		return s, boom
	}); err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	if st.Snapshot().Reserve != 50 {
		t.Fatalf("failed Apply changed the snapshot")
	}

	remote := core.AppState{Years: []core.YearData{}, Reserve: 7}
	st.Adopt(remote)
	if st.Snapshot().Reserve != 7 {
		t.Fatalf("Adopt must replace local state unconditionally")
	}

	want := []Origin{OriginRemote, OriginLocal, OriginRemote}
	if len(origins) != len(want) {
		t.Fatalf("origins = %v, want %v", origins, want)
	}
	for i := range want {
		if origins[i] != want[i] {
			t.Fatalf("origins = %v, want %v", origins, want)
		}
	}
	if st.Revision() != 3 {
		t.Fatalf("revision = %d, want 3", st.Revision())
	}
}

func TestStoreSnapshotIsolated(t *testing.T) {
	r := newTestReducer()
	st := NewStore()
	st.Adopt(r.InitializeDefault())

	snap := st.Snapshot()
	snap.Years[0].Months[0].Bills[0].Paid = true
	if st.Snapshot().Years[0].Months[0].Bills[0].Paid {
		t.Fatalf("snapshot shares storage with the store")
	}
}
