package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{"empty existing", Label{}, Label{Value: "content", Source: "recall"}, Label{Value: "content", Source: "recall"}},
		{"empty incoming", Label{Value: "content", Source: "recall"}, Label{}, Label{Value: "content", Source: "recall"}},
		{
			"accumulate",
			Label{Value: "content", Source: "recall"},
			Label{Value: "collaborative", Source: "fusion"},
			Label{Value: "content|collaborative", Source: "recall,fusion"},
		},
		{
			"duplicate value",
			Label{Value: "content|collaborative", Source: "recall"},
			Label{Value: "content", Source: "recall"},
			Label{Value: "content|collaborative", Source: "recall"},
		},
		{
			"missing source",
			Label{Value: "a"},
			Label{Value: "b", Source: "filter"},
			Label{Value: "a|b", Source: "filter"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeLabel(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("MergeLabel() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeLabels(t *testing.T) {
	dst := map[string]Label{"recall_source": {Value: "content", Source: "recall"}}
	src := map[string]Label{
		"recall_source": {Value: "collaborative", Source: "recall"},
		"based_on":      {Value: "similar users", Source: "recall"},
	}
	got := MergeLabels(dst, src)
	if got["recall_source"].Value != "content|collaborative" {
		t.Errorf("recall_source = %+v", got["recall_source"])
	}
	if got["based_on"].Value != "similar users" {
		t.Errorf("based_on = %+v", got["based_on"])
	}
	if len(MergeLabels(nil, src)) != 2 {
		t.Error("MergeLabels(nil, src) lost labels")
	}
}
