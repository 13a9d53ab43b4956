package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wellscreen/internal/model"
)

func TestDetectScale(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   model.Scale
	}{
		{"zero present, no six", []int{0, 1, 3, 5}, model.ScaleZeroToFive},
		{"six present", []int{1, 3, 6}, model.ScaleOneToSix},
		{"zero and six present, six wins", []int{0, 6}, model.ScaleOneToSix},
		{"only mid-range values defaults to one-to-six", []int{3, 3, 3}, model.ScaleOneToSix},
		{"all fives defaults to one-to-six", []int{5, 5, 5, 5, 5}, model.ScaleOneToSix},
		{"empty set defaults to one-to-six", nil, model.ScaleOneToSix},
		{"single zero", []int{0}, model.ScaleZeroToFive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScale(tt.values))
		})
	}
}
