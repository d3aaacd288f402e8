package repository

import "testing"

func TestWhere(t *testing.T) {
	var w where
	if w.String() != "" {
		t.Errorf("empty where = %q", w.String())
	}

	w.add("status = ?", "da_ky")
	w.search("  ", "title")
	w.search("50%_off", "title", "partner_name")
	w.add("category_id = ?", "c1")

	want := " WHERE status = $1 AND (title ILIKE $2 OR partner_name ILIKE $2) AND category_id = $3"
	if got := w.String(); got != want {
		t.Errorf("where = %q\nwant   %q", got, want)
	}
	if len(w.args) != 3 {
		t.Fatalf("args = %v", w.args)
	}
	if w.args[1] != `%50\%\_off%` {
		t.Errorf("search arg = %v", w.args[1])
	}
}
