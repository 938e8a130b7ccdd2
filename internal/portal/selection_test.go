package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionLastSetWins(t *testing.T) {
	var s Selection[int]
	assert.Nil(t, s.Get())

	a, b := 1, 2
	var seen []*int
	unsubscribe := s.Subscribe(func(v *int) { seen = append(seen, v) })

	s.Set(&a)
	s.Set(&b)
	assert.Equal(t, 2, *s.Get())
	assert.Equal(t, []*int{&a, &b}, seen)

	unsubscribe()
	s.Set(nil)
	assert.Nil(t, s.Get())
	assert.Len(t, seen, 2)
}
