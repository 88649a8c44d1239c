package consolidate

import "testing"

func TestApplyToRowPadsShortRows(t *testing.T) {
	a := assignment{values: map[int]interface{}{6: int64(42), 13: "x"}}

	row := applyToRow([]interface{}{"a", "b"}, a, 13)
	if len(row) != 13 {
		t.Fatalf("row length = %d, expected padding out to 13", len(row))
	}
	if row[0] != "a" || row[1] != "b" {
		t.Error("existing cells must survive padding")
	}
	if row[5] != int64(42) {
		t.Errorf("row[5] = %v, expected 42", row[5])
	}
	if row[12] != "x" {
		t.Errorf("row[12] = %v, expected %q", row[12], "x")
	}
	if row[2] != nil {
		t.Errorf("padding cell = %v, expected empty", row[2])
	}
}

func TestApplyToRowLongRowUntouchedLength(t *testing.T) {
	long := make([]interface{}, 20)
	long[19] = "tail"

	row := applyToRow(long, assignment{values: map[int]interface{}{6: 1}}, 13)
	if len(row) != 20 {
		t.Fatalf("row length = %d, expected 20", len(row))
	}
	if row[19] != "tail" {
		t.Error("cells beyond the destination range must survive")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Mode != ModeCopy {
		t.Errorf("Mode = %q, expected %q", opts.Mode, ModeCopy)
	}
	if opts.CacheSources {
		t.Error("CacheSources must default to off")
	}
	if opts.SourceDir != "" {
		t.Errorf("SourceDir = %q, expected the master's directory default", opts.SourceDir)
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"copy", "stream", "link"} {
		m, err := ParseMode(valid)
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", valid, err)
		}
		if string(m) != valid {
			t.Errorf("ParseMode(%q) = %q", valid, m)
		}
	}
	if _, err := ParseMode("verbose"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
