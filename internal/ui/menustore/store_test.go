package menustore

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/admin-console/internal/sidemenu"
)

func testSnapshot(active int) sidemenu.Snapshot {
	rows := make([]sidemenu.RowState, 4)
	rows[active].IsSubMenuShow = true
	rows[active].Visible = sidemenu.VisibilityBlock
	return sidemenu.Snapshot{Rows: rows, ActiveRow: active}
}

// TestStore_SaveLoad проверяет базовые операции Save/Load.
func TestStore_SaveLoad(t *testing.T) {
	store := New(10, time.Minute)
	id := uuid.New()

	if _, ok := store.Load(id); ok {
		t.Fatal("ожидался промах для новой сессии")
	}

	store.Save(id, testSnapshot(2))

	got, ok := store.Load(id)
	if !ok {
		t.Fatal("ожидалось попадание после Save")
	}
	if got.ActiveRow != 2 || !got.Rows[2].IsSubMenuShow {
		t.Errorf("снимок = %+v, ожидается активная строка 2", got)
	}
}

// TestStore_Delete проверяет удаление снимка.
func TestStore_Delete(t *testing.T) {
	store := New(10, time.Minute)
	id := uuid.New()

	store.Save(id, testSnapshot(1))
	store.Delete(id)

	if _, ok := store.Load(id); ok {
		t.Error("снимок должен быть удалён")
	}
}

// TestStore_Eviction проверяет вытеснение при переполнении.
func TestStore_Eviction(t *testing.T) {
	store := New(2, time.Minute)
	first, second, third := uuid.New(), uuid.New(), uuid.New()

	store.Save(first, testSnapshot(1))
	store.Save(second, testSnapshot(2))
	store.Save(third, testSnapshot(3))

	if store.Len() != 2 {
		t.Errorf("Len() = %d, ожидается 2", store.Len())
	}
	if _, ok := store.Load(first); ok {
		t.Error("самый старый снимок должен быть вытеснен")
	}
	if _, ok := store.Load(third); !ok {
		t.Error("последний снимок должен остаться")
	}
}

// TestStore_TTL проверяет истечение срока жизни снимка.
func TestStore_TTL(t *testing.T) {
	store := New(10, 50*time.Millisecond)
	id := uuid.New()

	store.Save(id, testSnapshot(1))
	time.Sleep(150 * time.Millisecond)

	if _, ok := store.Load(id); ok {
		t.Error("снимок должен истечь по TTL")
	}
}
