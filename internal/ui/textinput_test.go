package ui

import "testing"

func TestSubmit(t *testing.T) {
	var got []string
	ti := NewTextInput(10, 700, 400, 30, func(cmd string) string {
		got = append(got, cmd)
		return "ok " + cmd
	})
	ti.IsActive = true
	ti.Text = "  spawn 100 100  "
	ti.Submit()

	if len(got) != 1 || got[0] != "spawn 100 100" {
		t.Fatalf("submitted %q", got)
	}
	if ti.Text != "" || ti.IsActive {
		t.Error("submit should clear the box and drop focus")
	}
	if ti.Status != "ok spawn 100 100" {
		t.Errorf("status = %q", ti.Status)
	}

	ti.Text = "   "
	ti.Submit()
	if len(got) != 1 {
		t.Error("blank commands should not be submitted")
	}
}

func TestHistory(t *testing.T) {
	ti := NewTextInput(0, 0, 100, 20, nil)
	for _, cmd := range []string{"first", "second"} {
		ti.Text = cmd
		ti.Submit()
	}

	ti.recall(-1)
	if ti.Text != "second" {
		t.Errorf("up once = %q", ti.Text)
	}
	ti.recall(-1)
	ti.recall(-1)
	if ti.Text != "first" {
		t.Errorf("up past the start = %q", ti.Text)
	}
	ti.recall(1)
	ti.recall(1)
	if ti.Text != "" {
		t.Errorf("down past the end should clear, got %q", ti.Text)
	}
}

func TestHistoryLimit(t *testing.T) {
	ti := NewTextInput(0, 0, 100, 20, nil)
	for i := 0; i < MAX_HISTORY+5; i++ {
		ti.Text = "cmd"
		ti.Submit()
	}
	if len(ti.history) != MAX_HISTORY {
		t.Errorf("history has %d entries, want %d", len(ti.history), MAX_HISTORY)
	}
}

func TestIsClicked(t *testing.T) {
	ti := NewTextInput(10, 20, 100, 30, nil)
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 20, true},
		{110, 50, true},
		{60, 35, true},
		{9, 35, false},
		{60, 51, false},
	}
	for _, tt := range tests {
		if got := ti.IsClicked(tt.x, tt.y); got != tt.want {
			t.Errorf("IsClicked(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
