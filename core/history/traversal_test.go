package history

import (
	"testing"

	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
)

func class(name string, methods []string, inner ...*schema.ClassHistory) *schema.ClassHistory {
	c := &schema.ClassHistory{Name: name, Inner: inner}
	for _, m := range methods {
		c.Methods = append(c.Methods, &schema.MethodHistory{UniqueName: m})
	}
	return c
}

func names(f Forest) []string {
	var out []string
	for m := range f.Methods() {
		out = append(out, m.UniqueName)
	}
	return out
}

func TestIteratorOrder(t *testing.T) {
	forest := Forest{
		class("A", []string{"A.a1()", "A.a2()"},
			class("A$In1", []string{"A$In1.x()"}),
			class("A$In2", nil, class("A$In2$Deep", []string{"A$In2$Deep.d()"})),
		),
		class("B", []string{"B.b()"}),
	}

	// B is on top of the seeded stack; A's inner classes are pushed after A is popped.
	assert.Equal(t, []string{"B.b()", "A.a1()", "A.a2()", "A$In2$Deep.d()", "A$In1.x()"}, names(forest))
	assert.Equal(t, 5, forest.CountMethods())
}

func TestIteratorVisitsEveryMethodOnce(t *testing.T) {
	forest := Forest{
		class("Empty", nil),
		class("C", []string{"C.m()"}, class("C$I", []string{"C$I.m()", "C$I.n()"})),
		class("AlsoEmpty", nil, class("AlsoEmpty$I", nil)),
	}
	got := names(forest)
	assert.ElementsMatch(t, []string{"C.m()", "C$I.m()", "C$I.n()"}, got)
	assert.Equal(t, got, names(forest), "fresh iterators repeat the same order")
}

func TestIteratorHasNextIsIdempotent(t *testing.T) {
	it := Forest{class("A", []string{"A.m()"})}.Iterator()
	assert.True(t, it.HasNext())
	assert.True(t, it.HasNext())
	assert.Equal(t, "A.m()", it.Next().UniqueName)
	assert.False(t, it.HasNext())
	assert.Nil(t, it.Next())
}

func TestIteratorEmpty(t *testing.T) {
	assert.False(t, Forest{}.Iterator().HasNext())
	assert.False(t, Forest(nil).Iterator().HasNext())
}

func TestMethodsEarlyStop(t *testing.T) {
	forest := Forest{class("A", []string{"A.a()", "A.b()", "A.c()"})}
	count := 0
	for range forest.Methods() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
