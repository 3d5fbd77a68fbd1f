package registry

import "testing"

func TestRegisterLookup(t *testing.T) {
	Register(Preset{ID: "test-narrow", Title: "Narrow", Rows: 2, Cols: 3, WinValue: 64})

	p, err := Lookup("test-narrow")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if p.Size() != "2x3" || p.WinValue != 64 {
		t.Errorf("Lookup() = %+v, want 2x3 winning at 64", p)
	}

	if !Exists("test-narrow") {
		t.Error("Exists() should report registered preset")
	}
	if Exists("test-missing") {
		t.Error("Exists() should not report unknown preset")
	}
	if _, err := Lookup("test-missing"); err == nil {
		t.Error("Lookup() of unknown preset should fail")
	}
}

func TestListSorted(t *testing.T) {
	Register(Preset{ID: "test-b", Rows: 1, Cols: 2, WinValue: 4})
	Register(Preset{ID: "test-a", Rows: 1, Cols: 2, WinValue: 4})

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(Preset{ID: "test-dup", Rows: 1, Cols: 2, WinValue: 4})

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate ID should panic")
		}
	}()
	Register(Preset{ID: "test-dup", Rows: 1, Cols: 2, WinValue: 4})
}
