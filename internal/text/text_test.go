package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringWidth(t *testing.T) {
	s := NewTextShaper()
	font := Font{Family: "Helvetica", Size: 12}

	assert.Zero(t, s.StringWidth("", font))
	short := s.StringWidth("abc", font)
	long := s.StringWidth("abcabc", font)
	assert.Greater(t, short, 0.0)
	assert.InDelta(t, 2*short, long, 0.001)

	bigger := s.StringWidth("abc", Font{Family: "Helvetica", Size: 24})
	assert.InDelta(t, 2*short, bigger, 0.001)
}

func TestSplitTextToLines(t *testing.T) {
	s := NewTextShaper()
	font := Font{Family: "Times", Size: 10, LineHeight: 1.5}

	assert.Nil(t, s.SplitTextToLines("   ", font, 100))

	para := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	lines := s.SplitTextToLines(para, font, 150)
	assert.Greater(t, len(lines), 5)
	for _, line := range lines {
		assert.LessOrEqual(t, s.StringWidth(strings.TrimSpace(line), font), 150.0)
	}

	assert.Equal(t, []string{"one", "two"}, s.SplitTextToLines("one\ntwo", font, 0))
}

func TestMeasureText(t *testing.T) {
	s := NewTextShaper()
	font := Font{Size: 10, LineHeight: 2}

	w, h := s.MeasureText("hello\nworld", font, 500)
	assert.Greater(t, w, 0.0)
	assert.InDelta(t, 40, h, 0.001)
}

func TestFontLeading(t *testing.T) {
	assert.InDelta(t, 12, Font{Size: 10}.Leading(), 0.001)
	assert.InDelta(t, 15, Font{Size: 10, LineHeight: 1.5}.Leading(), 0.001)
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		text string
		want Direction
	}{
		{"Hello", LeftToRight},
		{"שלום", RightToLeft},
		{"مرحبا world", RightToLeft},
		{"123 hello שלום", LeftToRight},
		{"123 !?", LeftToRight},
		{"", LeftToRight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDirection(tt.text), tt.text)
	}

	assert.True(t, IsRTL("hello שלום"))
	assert.False(t, IsRTL("hello"))
	assert.Equal(t, "rtl", RightToLeft.String())
}
