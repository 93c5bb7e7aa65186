package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		present []bool
		want    Summary
	}{
		{name: "no records", present: nil, want: Summary{}},
		{name: "all present", present: []bool{true, true}, want: Summary{Total: 2, Present: 2, Percentage: 100}},
		{name: "two thirds", present: []bool{true, true, false}, want: Summary{Total: 3, Present: 2, Absent: 1, Percentage: 67}},
		{name: "all absent", present: []bool{false}, want: Summary{Total: 1, Absent: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]Record, 0, len(tt.present))
			for _, p := range tt.present {
				records = append(records, Record{IsPresent: p})
			}
			assert.Equal(t, tt.want, Summarize(records))
		})
	}
}
