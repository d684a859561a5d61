package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeBlockValidate(t *testing.T) {
	cases := []struct {
		name    string
		block   TimeBlock
		wantErr bool
	}{
		{name: "valid", block: TimeBlock{Weekday: 1, StartTime: "07:00:00", EndTime: "08:30:00"}},
		{name: "short clock", block: TimeBlock{Weekday: 6, StartTime: "18:00", EndTime: "19:30"}},
		{name: "weekday zero", block: TimeBlock{Weekday: 0, StartTime: "07:00", EndTime: "08:00"}, wantErr: true},
		{name: "weekday seven", block: TimeBlock{Weekday: 7, StartTime: "07:00", EndTime: "08:00"}, wantErr: true},
		{name: "start equals end", block: TimeBlock{Weekday: 2, StartTime: "09:00", EndTime: "09:00"}, wantErr: true},
		{name: "garbage", block: TimeBlock{Weekday: 2, StartTime: "nine", EndTime: "10:00"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.block.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeBlockTimeRange(t *testing.T) {
	b := TimeBlock{StartTime: "07:00:00", EndTime: "08:30:00"}
	assert.Equal(t, "07:00 - 08:30", b.TimeRange())
}
